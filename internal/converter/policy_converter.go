package converter

import (
	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"
)

func PolicyToResponse(policy *entity.Policy) *dto.PolicyResponse {
	response := &dto.PolicyResponse{
		PolicyNo:   policy.PolicyNo,
		PatientID:  policy.PatientID.String(),
		Plan:       policy.Plan,
		SumInsured: policy.SumInsured,
		StartDate:  policy.StartDate.Format("2006-01-02"),
		EndDate:    policy.EndDate.Format("2006-01-02"),
		Status:     string(policy.Status),
		CreatedAt:  policy.CreatedAt,
		UpdatedAt:  policy.UpdatedAt,
	}
	if policy.CancelReason != nil {
		response.CancelReason = *policy.CancelReason
	}
	return response
}

func PoliciesToResponses(policies []entity.Policy) []dto.PolicyResponse {
	responses := make([]dto.PolicyResponse, len(policies))
	for i := range policies {
		responses[i] = *PolicyToResponse(&policies[i])
	}
	return responses
}

func StatusCountsToResponse(counts *entity.PolicyStatusCounts) *dto.PolicyStatsResponse {
	return &dto.PolicyStatsResponse{
		Active:       counts.Active,
		Cancelled:    counts.Cancelled,
		Expired:      counts.Expired,
		ExpiringSoon: counts.ExpiringSoon,
	}
}

func PolicyEventToResponse(event *entity.PolicyEvent) dto.PolicyEventResponse {
	return dto.PolicyEventResponse{
		ID:        event.ID,
		PolicyNo:  event.PolicyNo,
		Action:    event.Action,
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt,
	}
}

func PolicyEventsToResponses(events []entity.PolicyEvent) []dto.PolicyEventResponse {
	responses := make([]dto.PolicyEventResponse, len(events))
	for i := range events {
		responses[i] = PolicyEventToResponse(&events[i])
	}
	return responses
}

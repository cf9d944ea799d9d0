package converter

import (
	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"
)

func PatientRowToResponse(row *entity.PatientWithPolicyCount) dto.PatientResponse {
	response := dto.PatientResponse{
		ID:       row.ID,
		Name:     row.Name,
		Phone:    row.Phone,
		City:     row.City,
		DOB:      row.DOB.Format("2006-01-02"),
		Policies: row.Policies,
	}
	if row.Email != nil {
		response.Email = *row.Email
	}
	if row.ImageURL != nil {
		response.ImageURL = *row.ImageURL
	}
	return response
}

func PatientRowsToResponses(rows []entity.PatientWithPolicyCount) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(rows))
	for i := range rows {
		responses[i] = PatientRowToResponse(&rows[i])
	}
	return responses
}

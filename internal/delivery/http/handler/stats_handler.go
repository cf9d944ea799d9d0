package handler

import (
	"net/http"

	"healthsure/internal/delivery/dto"
	"healthsure/internal/usecase"
	"healthsure/pkg/response"
)

type StatsHandler struct {
	policyUsecase usecase.PolicyUsecase
}

func NewStatsHandler(policyUsecase usecase.PolicyUsecase) *StatsHandler {
	return &StatsHandler{
		policyUsecase: policyUsecase,
	}
}

// GetPolicyStats serves the dashboard counters. On a store failure the
// dashboard still renders, so the error body carries zeroed counts.
func (h *StatsHandler) GetPolicyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.policyUsecase.GetPolicyStats(r.Context())
	if err != nil {
		response.JSON(w, http.StatusInternalServerError, response.Response{
			Success: false,
			Message: "Failed to get policy stats",
			Data:    &dto.PolicyStatsResponse{},
		})
		return
	}

	response.Success(w, http.StatusOK, "Policy stats retrieved successfully", stats)
}

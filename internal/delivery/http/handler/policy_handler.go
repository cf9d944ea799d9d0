package handler

import (
	"encoding/json"
	"net/http"

	"healthsure/internal/delivery/dto"
	"healthsure/internal/usecase"
	"healthsure/pkg/response"
	"healthsure/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PolicyHandler struct {
	policyUsecase usecase.PolicyUsecase
	validator     *validator.CustomValidator
}

func NewPolicyHandler(policyUsecase usecase.PolicyUsecase, validator *validator.CustomValidator) *PolicyHandler {
	return &PolicyHandler{
		policyUsecase: policyUsecase,
		validator:     validator,
	}
}

func (h *PolicyHandler) GetPoliciesByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["patientId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	policies, err := h.policyUsecase.GetPoliciesByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get policies")
		return
	}

	response.Success(w, http.StatusOK, "Policies retrieved successfully", policies)
}

func (h *PolicyHandler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	policy, err := h.policyUsecase.CreatePolicy(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrPolicyExists:
			response.Conflict(w, "Policy number already exists")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to add policy")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Policy added successfully", policy)
}

func (h *PolicyHandler) RenewPolicy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	policyNo := vars["policyNo"]

	var req dto.RenewPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	policy, err := h.policyUsecase.RenewPolicy(r.Context(), policyNo, &req)
	if err != nil {
		switch err {
		case usecase.ErrPolicyNotFound:
			response.NotFound(w, "Policy not found")
		case usecase.ErrPolicyCancelled:
			response.Error(w, http.StatusBadRequest, "Cancelled policies cannot be renewed", nil)
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Renew failed")
		}
		return
	}

	response.Success(w, http.StatusOK, "Policy renewed successfully", policy)
}

func (h *PolicyHandler) CancelPolicy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	policyNo := vars["policyNo"]

	var req dto.CancelPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	policy, err := h.policyUsecase.CancelPolicy(r.Context(), policyNo, &req)
	if err != nil {
		switch err {
		case usecase.ErrPolicyNotFound:
			response.NotFound(w, "Policy not found")
		case usecase.ErrPolicyNotActive:
			response.Error(w, http.StatusBadRequest, "Only active policies can be cancelled", nil)
		default:
			response.InternalServerError(w, "Cancel failed")
		}
		return
	}

	response.Success(w, http.StatusOK, "Policy cancelled successfully", policy)
}

func (h *PolicyHandler) GetPolicyEvents(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	policyNo := vars["policyNo"]

	events, err := h.policyUsecase.GetPolicyEvents(r.Context(), policyNo)
	if err != nil {
		if err == usecase.ErrPolicyNotFound {
			response.NotFound(w, "Policy not found")
			return
		}
		response.InternalServerError(w, "Failed to get policy events")
		return
	}

	response.Success(w, http.StatusOK, "Policy events retrieved successfully", events)
}

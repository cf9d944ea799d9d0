package handler

import (
	"net/http"

	"healthsure/internal/delivery/dto"
	"healthsure/internal/usecase"
	"healthsure/pkg/response"
	"healthsure/pkg/validator"
)

// Patient photos are small; cap the in-memory part of the multipart
// parse at 10 MiB.
const maxUploadMemory = 10 << 20

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// GetPatients lists patients with optional ?q= search on name or phone.
func (h *PatientHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	searchTerm := r.URL.Query().Get("q")

	patients, err := h.patientUsecase.ListPatients(r.Context(), searchTerm)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

// CreatePatient handles the multipart intake form with optional photo.
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	req := dto.CreatePatientRequest{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Phone:     r.FormValue("phone"),
		Address:   r.FormValue("address"),
		DOB:       r.FormValue("dob"),
		Email:     r.FormValue("email"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	var image *usecase.ImageUpload
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		image = &usecase.ImageUpload{
			Filename: header.Filename,
			Reader:   file,
		}
	} else if err != http.ErrMissingFile {
		response.Error(w, http.StatusBadRequest, "Invalid image upload", nil)
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), &req, image)
	if err != nil {
		if err == usecase.ErrInvalidDOB {
			response.Error(w, http.StatusBadRequest, "Invalid date of birth format, use YYYY-MM-DD", nil)
			return
		}
		response.InternalServerError(w, "Failed to add patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient added successfully", patient)
}

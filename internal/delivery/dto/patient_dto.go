package dto

import (
	"github.com/google/uuid"
)

// CreatePatientRequest carries the patient intake form. It arrives as
// multipart/form-data so the optional photo can ride along; field names
// match the intake form inputs.
type CreatePatientRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Address   string `json:"address" validate:"required,max=100"`
	DOB       string `json:"dob" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// CreatePatientResponse returns the generated patient identity
type CreatePatientResponse struct {
	PatientID uuid.UUID `json:"patient_id"`
}

// PatientResponse represents a patient row in list responses, annotated
// with the live count of Active policies
type PatientResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	City     string    `json:"city"`
	DOB      string    `json:"dob"`
	Email    string    `json:"email,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	Policies int64     `json:"policies"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

package repository

import (
	"errors"
	"strings"

	"healthsure/internal/domain/entity"
	domainRepo "healthsure/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// Search returns patients whose name or phone contains term
// (case-insensitive; empty term matches all), each annotated with a live
// count of the patient's Active policies. No ordering is guaranteed.
func (r *patientRepository) Search(db *gorm.DB, term string) ([]entity.PatientWithPolicyCount, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	var rows []entity.PatientWithPolicyCount
	err := db.Model(&entity.Patient{}).
		Select(`patients.id, patients.name, patients.phone, patients.city,
			patients.dob, patients.email, patients.image_url,
			COUNT(policies.policy_no) AS policies`).
		Joins("LEFT JOIN policies ON policies.patient_id = patients.id AND policies.status = ?",
			entity.PolicyStatusActive).
		Where("LOWER(patients.name) LIKE ? OR LOWER(patients.phone) LIKE ?", pattern, pattern).
		Group("patients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"healthsure/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	Search(db *gorm.DB, term string) ([]entity.PatientWithPolicyCount, error)
}

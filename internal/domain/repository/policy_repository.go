package repository

import (
	"time"

	"healthsure/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyRepository interface {
	Create(db *gorm.DB, policy *entity.Policy) error
	FindByPolicyNo(db *gorm.DB, policyNo string) (*entity.Policy, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Policy, error)

	// Renew atomically reactivates a policy unless it is Cancelled.
	// Returns affected rows: 1 = renewed, 0 = missing or cancelled.
	Renew(db *gorm.DB, policyNo string, startDate, endDate time.Time) (int64, error)

	// Cancel atomically cancels a policy ONLY if it is currently Active.
	// Returns affected rows: 1 = cancelled, 0 = missing or not active.
	Cancel(db *gorm.DB, policyNo string, reason string) (int64, error)

	StatusCounts(db *gorm.DB, today time.Time) (*entity.PolicyStatusCounts, error)
}

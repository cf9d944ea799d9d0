package repository

import (
	"errors"
	"time"

	"healthsure/internal/domain/entity"
	domainRepo "healthsure/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type policyRepository struct{}

func NewPolicyRepository() domainRepo.PolicyRepository {
	return &policyRepository{}
}

func (r *policyRepository) Create(db *gorm.DB, policy *entity.Policy) error {
	return db.Create(policy).Error
}

func (r *policyRepository) FindByPolicyNo(db *gorm.DB, policyNo string) (*entity.Policy, error) {
	var policy entity.Policy
	err := db.Where("policy_no = ?", policyNo).First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Policy, error) {
	var policies []entity.Policy
	err := db.Where("patient_id = ?", patientID).Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

// Renew atomically reactivates a policy unless it is Cancelled. The guard
// and the write are one conditional UPDATE, so a concurrent cancel on the
// same policy number cannot slip between a status read and this write.
// Clearing cancel_reason keeps the reason<->status invariant intact for
// rows that were imported Active with a stale reason.
func (r *policyRepository) Renew(db *gorm.DB, policyNo string, startDate, endDate time.Time) (int64, error) {
	result := db.Model(&entity.Policy{}).
		Where("policy_no = ? AND status != ?", policyNo, entity.PolicyStatusCancelled).
		Updates(map[string]interface{}{
			"status":        entity.PolicyStatusActive,
			"start_date":    startDate,
			"end_date":      endDate,
			"cancel_reason": nil,
		})
	return result.RowsAffected, result.Error
}

// Cancel atomically cancels a policy ONLY if it is currently Active.
// Returns affected rows: 1 = success, 0 = missing or guard failure.
func (r *policyRepository) Cancel(db *gorm.DB, policyNo string, reason string) (int64, error) {
	result := db.Model(&entity.Policy{}).
		Where("policy_no = ? AND status = ?", policyNo, entity.PolicyStatusActive).
		Updates(map[string]interface{}{
			"status":        entity.PolicyStatusCancelled,
			"cancel_reason": reason,
		})
	return result.RowsAffected, result.Error
}

// StatusCounts computes the four dashboard aggregates in one pass over
// the policies table. ExpiringSoon is Active with end_date inside
// [today, today+30d] inclusive.
func (r *policyRepository) StatusCounts(db *gorm.DB, today time.Time) (*entity.PolicyStatusCounts, error) {
	windowEnd := today.Add(entity.ExpiringSoonWindow)

	var counts entity.PolicyStatusCounts
	err := db.Model(&entity.Policy{}).
		Select(`
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS expired,
			COALESCE(SUM(CASE WHEN status = ? AND end_date BETWEEN ? AND ? THEN 1 ELSE 0 END), 0) AS expiring_soon`,
			entity.PolicyStatusActive,
			entity.PolicyStatusCancelled,
			entity.PolicyStatusExpired,
			entity.PolicyStatusActive, today, windowEnd).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

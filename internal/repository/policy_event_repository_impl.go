package repository

import (
	"healthsure/internal/domain/entity"
	domainRepo "healthsure/internal/domain/repository"

	"gorm.io/gorm"
)

type policyEventRepository struct{}

func NewPolicyEventRepository() domainRepo.PolicyEventRepository {
	return &policyEventRepository{}
}

func (r *policyEventRepository) Create(db *gorm.DB, event *entity.PolicyEvent) error {
	return db.Create(event).Error
}

func (r *policyEventRepository) FindByPolicyNo(db *gorm.DB, policyNo string) ([]entity.PolicyEvent, error) {
	var events []entity.PolicyEvent
	err := db.Where("policy_no = ?", policyNo).
		Order("id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

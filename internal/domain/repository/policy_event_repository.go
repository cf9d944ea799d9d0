package repository

import (
	"healthsure/internal/domain/entity"

	"gorm.io/gorm"
)

type PolicyEventRepository interface {
	Create(db *gorm.DB, event *entity.PolicyEvent) error
	FindByPolicyNo(db *gorm.DB, policyNo string) ([]entity.PolicyEvent, error)
}

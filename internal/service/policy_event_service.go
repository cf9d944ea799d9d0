package service

import (
	"context"

	"healthsure/internal/domain/entity"
	"healthsure/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PolicyEventService records the policy lifecycle audit trail. Writes are
// best-effort: a failed event write is logged and never fails the request
// that triggered it.
type PolicyEventService interface {
	RecordCreate(ctx context.Context, policy *entity.Policy)
	RecordRenew(ctx context.Context, oldPolicy, newPolicy *entity.Policy)
	RecordCancel(ctx context.Context, oldPolicy, newPolicy *entity.Policy)
}

type policyEventService struct {
	db        *gorm.DB
	log       *logrus.Logger
	eventRepo repository.PolicyEventRepository
}

func NewPolicyEventService(db *gorm.DB, log *logrus.Logger, eventRepo repository.PolicyEventRepository) PolicyEventService {
	return &policyEventService{
		db:        db,
		log:       log,
		eventRepo: eventRepo,
	}
}

func (s *policyEventService) RecordCreate(ctx context.Context, policy *entity.Policy) {
	s.record(ctx, policy.PolicyNo, entity.PolicyActionCreate, entity.JSON{
		"patient_id": policy.PatientID.String(),
		"plan":       policy.Plan,
		"status":     string(policy.Status),
		"start_date": policy.StartDate.Format("2006-01-02"),
		"end_date":   policy.EndDate.Format("2006-01-02"),
	})
}

func (s *policyEventService) RecordRenew(ctx context.Context, oldPolicy, newPolicy *entity.Policy) {
	s.record(ctx, newPolicy.PolicyNo, entity.PolicyActionRenew, entity.JSON{
		"old_status": statusOf(oldPolicy),
		"new_status": string(newPolicy.Status),
		"start_date": newPolicy.StartDate.Format("2006-01-02"),
		"end_date":   newPolicy.EndDate.Format("2006-01-02"),
	})
}

func (s *policyEventService) RecordCancel(ctx context.Context, oldPolicy, newPolicy *entity.Policy) {
	metadata := entity.JSON{
		"old_status": statusOf(oldPolicy),
		"new_status": string(newPolicy.Status),
	}
	if newPolicy.CancelReason != nil {
		metadata["reason"] = *newPolicy.CancelReason
	}
	s.record(ctx, newPolicy.PolicyNo, entity.PolicyActionCancel, metadata)
}

func (s *policyEventService) record(ctx context.Context, policyNo, action string, metadata entity.JSON) {
	event := &entity.PolicyEvent{
		PolicyNo: policyNo,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.eventRepo.Create(s.db.WithContext(ctx), event); err != nil {
		s.log.Warnf("Failed to record %s event for policy %s: %+v", action, policyNo, err)
	}
}

func statusOf(p *entity.Policy) string {
	if p == nil {
		return ""
	}
	return string(p.Status)
}

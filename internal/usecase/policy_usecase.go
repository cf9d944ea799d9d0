package usecase

import (
	"context"
	"errors"
	"time"

	"healthsure/internal/converter"
	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"
	"healthsure/internal/domain/repository"
	"healthsure/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPolicyNotFound  = errors.New("policy not found")
	ErrPolicyExists    = errors.New("policy number already exists")
	ErrPolicyCancelled = errors.New("cancelled policies cannot be renewed")
	ErrPolicyNotActive = errors.New("only active policies can be cancelled")
	ErrInvalidDate     = errors.New("invalid date format, use YYYY-MM-DD")
)

type PolicyUsecase interface {
	CreatePolicy(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error)
	GetPoliciesByPatient(ctx context.Context, patientID uuid.UUID) (*dto.PolicyListResponse, error)
	RenewPolicy(ctx context.Context, policyNo string, req *dto.RenewPolicyRequest) (*dto.PolicyResponse, error)
	CancelPolicy(ctx context.Context, policyNo string, req *dto.CancelPolicyRequest) (*dto.PolicyResponse, error)
	GetPolicyEvents(ctx context.Context, policyNo string) (*dto.PolicyEventListResponse, error)
	GetPolicyStats(ctx context.Context) (*dto.PolicyStatsResponse, error)
}

type policyUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	policyRepo   repository.PolicyRepository
	patientRepo  repository.PatientRepository
	eventRepo    repository.PolicyEventRepository
	eventService service.PolicyEventService
	statsCache   service.StatsCache
}

func NewPolicyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	policyRepo repository.PolicyRepository,
	patientRepo repository.PatientRepository,
	eventRepo repository.PolicyEventRepository,
	eventService service.PolicyEventService,
	statsCache service.StatsCache,
) PolicyUsecase {
	return &policyUsecase{
		db:           db,
		log:          log,
		policyRepo:   policyRepo,
		patientRepo:  patientRepo,
		eventRepo:    eventRepo,
		eventService: eventService,
		statsCache:   statsCache,
	}
}

// CreatePolicy inserts a new policy with the caller-supplied initial
// status. The status string is stored as-is; lifecycle guards only apply
// to renew and cancel.
func (u *policyUsecase) CreatePolicy(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	existing, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), req.PolicyNo)
	if err != nil {
		u.log.Warnf("Failed to check existing policy %s: %+v", req.PolicyNo, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPolicyExists
	}

	policy := &entity.Policy{
		PolicyNo:   req.PolicyNo,
		PatientID:  patientID,
		Plan:       req.Plan,
		SumInsured: req.SumInsured,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     entity.PolicyStatus(req.Status),
	}

	if err := u.policyRepo.Create(u.db.WithContext(ctx), policy); err != nil {
		u.log.Warnf("Failed to create policy %s: %+v", req.PolicyNo, err)
		return nil, err
	}

	u.eventService.RecordCreate(ctx, policy)
	u.statsCache.Invalidate(ctx)

	u.log.Infof("Policy created: policy_no=%s, patient=%s, status=%s", policy.PolicyNo, patientID, policy.Status)
	return converter.PolicyToResponse(policy), nil
}

func (u *policyUsecase) GetPoliciesByPatient(ctx context.Context, patientID uuid.UUID) (*dto.PolicyListResponse, error) {
	policies, err := u.policyRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find policies for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.PolicyListResponse{
		Policies: converter.PoliciesToResponses(policies),
		Total:    len(policies),
	}, nil
}

// RenewPolicy reactivates a policy with new coverage dates.
//
// The guard (Cancelled is terminal) and the write are a single
// conditional UPDATE in the repository, so a renew racing a cancel on
// the same policy number resolves to exactly one winner; the loser sees
// the guard failure here. A successful renew also clears cancel_reason,
// keeping reason<->status consistent even for rows imported with a
// stale reason.
func (u *policyUsecase) RenewPolicy(ctx context.Context, policyNo string, req *dto.RenewPolicyRequest) (*dto.PolicyResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	before, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to find policy %s: %+v", policyNo, err)
		return nil, err
	}
	if before == nil {
		return nil, ErrPolicyNotFound
	}

	affected, err := u.policyRepo.Renew(u.db.WithContext(ctx), policyNo, startDate, endDate)
	if err != nil {
		u.log.Warnf("Failed to renew policy %s: %+v", policyNo, err)
		return nil, err
	}
	if affected == 0 {
		// The conditional update only skips a row that is missing or
		// Cancelled; re-read to tell the two apart.
		current, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrPolicyNotFound
		}
		return nil, ErrPolicyCancelled
	}

	renewed, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to reload policy %s after renew: %+v", policyNo, err)
		return nil, err
	}
	if renewed == nil {
		return nil, ErrPolicyNotFound
	}

	u.eventService.RecordRenew(ctx, before, renewed)
	u.statsCache.Invalidate(ctx)

	u.log.Infof("Policy renewed: policy_no=%s, end_date=%s", policyNo, req.EndDate)
	return converter.PolicyToResponse(renewed), nil
}

// CancelPolicy cancels an Active policy and records the reason. Same
// conditional-update shape as RenewPolicy: only a currently-Active row
// is touched, so concurrent cancels (or a cancel racing a renew) cannot
// both succeed.
func (u *policyUsecase) CancelPolicy(ctx context.Context, policyNo string, req *dto.CancelPolicyRequest) (*dto.PolicyResponse, error) {
	before, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to find policy %s: %+v", policyNo, err)
		return nil, err
	}
	if before == nil {
		return nil, ErrPolicyNotFound
	}

	affected, err := u.policyRepo.Cancel(u.db.WithContext(ctx), policyNo, req.Reason)
	if err != nil {
		u.log.Warnf("Failed to cancel policy %s: %+v", policyNo, err)
		return nil, err
	}
	if affected == 0 {
		current, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrPolicyNotFound
		}
		return nil, ErrPolicyNotActive
	}

	cancelled, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to reload policy %s after cancel: %+v", policyNo, err)
		return nil, err
	}
	if cancelled == nil {
		return nil, ErrPolicyNotFound
	}

	u.eventService.RecordCancel(ctx, before, cancelled)
	u.statsCache.Invalidate(ctx)

	u.log.Infof("Policy cancelled: policy_no=%s", policyNo)
	return converter.PolicyToResponse(cancelled), nil
}

func (u *policyUsecase) GetPolicyEvents(ctx context.Context, policyNo string) (*dto.PolicyEventListResponse, error) {
	policy, err := u.policyRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to find policy %s: %+v", policyNo, err)
		return nil, err
	}
	if policy == nil {
		return nil, ErrPolicyNotFound
	}

	events, err := u.eventRepo.FindByPolicyNo(u.db.WithContext(ctx), policyNo)
	if err != nil {
		u.log.Warnf("Failed to find events for policy %s: %+v", policyNo, err)
		return nil, err
	}

	return &dto.PolicyEventListResponse{
		Events: converter.PolicyEventsToResponses(events),
		Total:  len(events),
	}, nil
}

// GetPolicyStats serves the dashboard counters, Redis-first with the
// database as fallback. "Today" is the UTC calendar date; the
// expiring-soon window is end_date in [today, today+30d] inclusive.
func (u *policyUsecase) GetPolicyStats(ctx context.Context) (*dto.PolicyStatsResponse, error) {
	if cached, ok := u.statsCache.Get(ctx); ok {
		return converter.StatusCountsToResponse(cached), nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	counts, err := u.policyRepo.StatusCounts(u.db.WithContext(ctx), today)
	if err != nil {
		u.log.Warnf("Failed to compute policy stats: %+v", err)
		return nil, err
	}

	u.statsCache.Set(ctx, counts)
	return converter.StatusCountsToResponse(counts), nil
}

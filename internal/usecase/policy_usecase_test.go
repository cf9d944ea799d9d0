package usecase

import (
	"context"
	"sync"
	"testing"

	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePolicy_UnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.policyUsecase.CreatePolicy(context.Background(), &dto.CreatePolicyRequest{
		PatientID:  uuid.New().String(),
		PolicyNo:   "PN-1",
		Plan:       "Family Floater",
		SumInsured: decimal.NewFromInt(500000),
		StartDate:  "2026-01-01",
		EndDate:    "2027-01-01",
		Status:     "Active",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestCreatePolicy_DuplicatePolicyNo(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-1", entity.PolicyStatusActive, testToday().AddDate(1, 0, 0))

	_, err := f.policyUsecase.CreatePolicy(context.Background(), &dto.CreatePolicyRequest{
		PatientID:  patientID.String(),
		PolicyNo:   "PN-1",
		Plan:       "Individual",
		SumInsured: decimal.NewFromInt(100000),
		StartDate:  "2026-01-01",
		EndDate:    "2027-01-01",
		Status:     "Active",
	})
	assert.ErrorIs(t, err, ErrPolicyExists)
}

func TestCreatePolicy_StoresCallerSuppliedStatus(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")

	// The engine does not restrict the initial status; imports may carry
	// Expired (or anything else) straight in.
	f.createPolicy(t, patientID, "PN-IMP", entity.PolicyStatusExpired, testToday().AddDate(0, -1, 0))

	policy := f.loadPolicy(t, "PN-IMP")
	assert.Equal(t, entity.PolicyStatusExpired, policy.Status)
	assert.Nil(t, policy.CancelReason)
}

func TestRenewPolicy_UnknownPolicy(t *testing.T) {
	f := newFixture(t)

	_, err := f.policyUsecase.RenewPolicy(context.Background(), "PN-MISSING", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestRenewPolicy_InvalidDateBeforeStoreWrite(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-2", entity.PolicyStatusActive, testToday().AddDate(0, 0, 20))
	before := f.loadPolicy(t, "PN-2")

	_, err := f.policyUsecase.RenewPolicy(context.Background(), "PN-2", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   "not-a-date",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	after := f.loadPolicy(t, "PN-2")
	assert.Equal(t, before.EndDate, after.EndDate, "record must be untouched")
	assert.Equal(t, before.Status, after.Status)
}

func TestRenewPolicy_FromExpired(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-EXP", entity.PolicyStatusExpired, testToday().AddDate(0, -2, 0))

	newEnd := testToday().AddDate(1, 0, 0)
	resp, err := f.policyUsecase.RenewPolicy(context.Background(), "PN-EXP", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(newEnd),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PolicyStatusActive), resp.Status)
	assert.Equal(t, dateString(newEnd), resp.EndDate)
	assert.Empty(t, resp.CancelReason)
}

func TestRenewPolicy_CancelledIsTerminal(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-C", entity.PolicyStatusActive, testToday().AddDate(0, 6, 0))

	_, err := f.policyUsecase.CancelPolicy(context.Background(), "PN-C", &dto.CancelPolicyRequest{Reason: "duplicate"})
	require.NoError(t, err)
	cancelled := f.loadPolicy(t, "PN-C")

	_, err = f.policyUsecase.RenewPolicy(context.Background(), "PN-C", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	assert.ErrorIs(t, err, ErrPolicyCancelled)

	after := f.loadPolicy(t, "PN-C")
	assert.Equal(t, cancelled.Status, after.Status, "record must be unchanged")
	assert.Equal(t, cancelled.EndDate, after.EndDate)
	require.NotNil(t, after.CancelReason)
	assert.Equal(t, "duplicate", *after.CancelReason)
}

func TestCancelPolicy_RequiresActive(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-E", entity.PolicyStatusExpired, testToday().AddDate(0, -1, 0))

	_, err := f.policyUsecase.CancelPolicy(context.Background(), "PN-E", &dto.CancelPolicyRequest{Reason: "nope"})
	assert.ErrorIs(t, err, ErrPolicyNotActive)

	after := f.loadPolicy(t, "PN-E")
	assert.Equal(t, entity.PolicyStatusExpired, after.Status)
	assert.Nil(t, after.CancelReason)
}

func TestCancelPolicy_DoubleCancelRejected(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-D", entity.PolicyStatusActive, testToday().AddDate(1, 0, 0))

	_, err := f.policyUsecase.CancelPolicy(context.Background(), "PN-D", &dto.CancelPolicyRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = f.policyUsecase.CancelPolicy(context.Background(), "PN-D", &dto.CancelPolicyRequest{Reason: "second"})
	assert.ErrorIs(t, err, ErrPolicyNotActive)

	after := f.loadPolicy(t, "PN-D")
	require.NotNil(t, after.CancelReason)
	assert.Equal(t, "first", *after.CancelReason, "loser must not overwrite the reason")
}

// Reason and status always move together: after any sequence of
// create/renew/cancel, cancel_reason is set iff the policy is Cancelled.
func TestLifecycle_ReasonStatusInvariant(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-INV", entity.PolicyStatusActive, testToday().AddDate(0, 6, 0))

	check := func() {
		t.Helper()
		policy := f.loadPolicy(t, "PN-INV")
		if policy.Status == entity.PolicyStatusCancelled {
			assert.NotNil(t, policy.CancelReason)
		} else {
			assert.Nil(t, policy.CancelReason)
		}
	}

	check()

	_, err := f.policyUsecase.CancelPolicy(context.Background(), "PN-INV", &dto.CancelPolicyRequest{Reason: "duplicate"})
	require.NoError(t, err)
	check()

	// Terminal: renew is rejected, state stays consistent
	_, err = f.policyUsecase.RenewPolicy(context.Background(), "PN-INV", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	assert.ErrorIs(t, err, ErrPolicyCancelled)
	check()
}

// A renew on a row that was imported Active with a leftover reason
// clears the reason, restoring the invariant.
func TestRenewPolicy_ClearsStaleCancelReason(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-STALE", entity.PolicyStatusActive, testToday().AddDate(0, 1, 0))

	reason := "left over from import"
	require.NoError(t, f.db.Model(&entity.Policy{}).
		Where("policy_no = ?", "PN-STALE").
		Update("cancel_reason", &reason).Error)

	resp, err := f.policyUsecase.RenewPolicy(context.Background(), "PN-STALE", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.CancelReason)

	after := f.loadPolicy(t, "PN-STALE")
	assert.Nil(t, after.CancelReason)
}

// Concurrent cancel and renew against the same initially-Active policy:
// cancel is the only operation that can close the door, so it always
// wins eventually, and a renew that arrives after it observes the guard
// failure instead of silently overwriting.
func TestConcurrentCancelAndRenew_SingleConsistentOutcome(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-RACE", entity.PolicyStatusActive, testToday().AddDate(0, 3, 0))

	var wg sync.WaitGroup
	var cancelErr, renewErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = f.policyUsecase.CancelPolicy(context.Background(), "PN-RACE",
			&dto.CancelPolicyRequest{Reason: "race"})
	}()
	go func() {
		defer wg.Done()
		_, renewErr = f.policyUsecase.RenewPolicy(context.Background(), "PN-RACE", &dto.RenewPolicyRequest{
			StartDate: dateString(testToday()),
			EndDate:   dateString(testToday().AddDate(1, 0, 0)),
		})
	}()
	wg.Wait()

	require.NoError(t, cancelErr, "cancel must win against a policy renew can only keep Active")
	if renewErr != nil {
		assert.ErrorIs(t, renewErr, ErrPolicyCancelled)
	}

	final := f.loadPolicy(t, "PN-RACE")
	assert.Equal(t, entity.PolicyStatusCancelled, final.Status)
	require.NotNil(t, final.CancelReason)
	assert.Equal(t, "race", *final.CancelReason)
}

func TestGetPolicyEvents_TrailsLifecycle(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-EV", entity.PolicyStatusActive, testToday().AddDate(0, 2, 0))

	_, err := f.policyUsecase.RenewPolicy(context.Background(), "PN-EV", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	require.NoError(t, err)

	_, err = f.policyUsecase.CancelPolicy(context.Background(), "PN-EV", &dto.CancelPolicyRequest{Reason: "moved"})
	require.NoError(t, err)

	events, err := f.policyUsecase.GetPolicyEvents(context.Background(), "PN-EV")
	require.NoError(t, err)
	require.Equal(t, 3, events.Total)

	// Newest first
	assert.Equal(t, entity.PolicyActionCancel, events.Events[0].Action)
	assert.Equal(t, entity.PolicyActionRenew, events.Events[1].Action)
	assert.Equal(t, entity.PolicyActionCreate, events.Events[2].Action)
	assert.Equal(t, "moved", events.Events[0].Metadata["reason"])
}

func TestGetPolicyEvents_UnknownPolicy(t *testing.T) {
	f := newFixture(t)

	_, err := f.policyUsecase.GetPolicyEvents(context.Background(), "PN-MISSING")
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestGetPolicyStats_CacheAndInvalidation(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-S1", entity.PolicyStatusActive, testToday().AddDate(0, 0, 10))

	stats, err := f.policyUsecase.GetPolicyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.ExpiringSoon)

	// Second read is served from the cache
	cached, ok := f.statsCache.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(1), cached.Active)

	// A mutation drops the cache; the next read recomputes
	_, err = f.policyUsecase.CancelPolicy(context.Background(), "PN-S1", &dto.CancelPolicyRequest{Reason: "duplicate"})
	require.NoError(t, err)
	_, ok = f.statsCache.Get(context.Background())
	assert.False(t, ok)

	stats, err = f.policyUsecase.GetPolicyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Active)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(0), stats.ExpiringSoon)
}

// End-to-end walk through the dashboard scenario: an expiring policy is
// cancelled and then refuses renewal.
func TestScenario_ExpireCancelRenew(t *testing.T) {
	f := newFixture(t)
	patientID := f.createPatient(t, "Asha")
	f.createPolicy(t, patientID, "PN-1", entity.PolicyStatusActive, testToday().AddDate(0, 0, 10))

	stats, err := f.policyUsecase.GetPolicyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ExpiringSoon)

	_, err = f.policyUsecase.CancelPolicy(context.Background(), "PN-1", &dto.CancelPolicyRequest{Reason: "duplicate"})
	require.NoError(t, err)

	policy := f.loadPolicy(t, "PN-1")
	assert.Equal(t, entity.PolicyStatusCancelled, policy.Status)
	require.NotNil(t, policy.CancelReason)
	assert.Equal(t, "duplicate", *policy.CancelReason)

	stats, err = f.policyUsecase.GetPolicyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Active)
	assert.Equal(t, int64(1), stats.Cancelled)

	_, err = f.policyUsecase.RenewPolicy(context.Background(), "PN-1", &dto.RenewPolicyRequest{
		StartDate: dateString(testToday()),
		EndDate:   dateString(testToday().AddDate(1, 0, 0)),
	})
	assert.ErrorIs(t, err, ErrPolicyCancelled)

	unchanged := f.loadPolicy(t, "PN-1")
	assert.Equal(t, entity.PolicyStatusCancelled, unchanged.Status)
}

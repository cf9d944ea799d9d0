package usecase

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"
	"healthsure/internal/repository"
	"healthsure/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeStatsCache is an in-memory stand-in for the Redis stats cache
type fakeStatsCache struct {
	mu            sync.Mutex
	counts        *entity.PolicyStatusCounts
	invalidations int
}

func (f *fakeStatsCache) Get(ctx context.Context) (*entity.PolicyStatusCounts, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		return nil, false
	}
	return f.counts, true
}

func (f *fakeStatsCache) Set(ctx context.Context, counts *entity.PolicyStatusCounts) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = counts
}

func (f *fakeStatsCache) Invalidate(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = nil
	f.invalidations++
}

// fakeImageStore records saves without touching disk
type fakeImageStore struct {
	saved []string
}

func (f *fakeImageStore) Save(filename string, r io.Reader) (string, error) {
	f.saved = append(f.saved, filename)
	return "/uploads/patients/" + filename, nil
}

type fixture struct {
	db             *gorm.DB
	patientUsecase PatientUsecase
	policyUsecase  PolicyUsecase
	statsCache     *fakeStatsCache
	imageStore     *fakeImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "healthsure_test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Patient{}, &entity.Policy{}, &entity.PolicyEvent{}))

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	patientRepo := repository.NewPatientRepository()
	policyRepo := repository.NewPolicyRepository()
	eventRepo := repository.NewPolicyEventRepository()
	eventService := service.NewPolicyEventService(db, log, eventRepo)

	statsCache := &fakeStatsCache{}
	imageStore := &fakeImageStore{}

	return &fixture{
		db:             db,
		patientUsecase: NewPatientUsecase(db, log, patientRepo, imageStore),
		policyUsecase:  NewPolicyUsecase(db, log, policyRepo, patientRepo, eventRepo, eventService, statsCache),
		statsCache:     statsCache,
		imageStore:     imageStore,
	}
}

func (f *fixture) createPatient(t *testing.T, name string) uuid.UUID {
	t.Helper()

	resp, err := f.patientUsecase.CreatePatient(context.Background(), &dto.CreatePatientRequest{
		FirstName: name,
		LastName:  "Patient",
		Phone:     "9000000001",
		Address:   "Pune",
		DOB:       "1990-03-14",
	}, nil)
	require.NoError(t, err)
	return resp.PatientID
}

func (f *fixture) createPolicy(t *testing.T, patientID uuid.UUID, policyNo string, status entity.PolicyStatus, endDate time.Time) {
	t.Helper()

	_, err := f.policyUsecase.CreatePolicy(context.Background(), &dto.CreatePolicyRequest{
		PatientID:  patientID.String(),
		PolicyNo:   policyNo,
		Plan:       "Family Floater",
		SumInsured: decimal.NewFromInt(500000),
		StartDate:  endDate.AddDate(-1, 0, 0).Format("2006-01-02"),
		EndDate:    endDate.Format("2006-01-02"),
		Status:     string(status),
	})
	require.NoError(t, err)
}

func (f *fixture) loadPolicy(t *testing.T, policyNo string) *entity.Policy {
	t.Helper()

	var policy entity.Policy
	require.NoError(t, f.db.Where("policy_no = ?", policyNo).First(&policy).Error)
	return &policy
}

func testToday() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

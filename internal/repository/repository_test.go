package repository

import (
	"path/filepath"
	"testing"
	"time"

	"healthsure/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the application
// schema. A file-backed database (not :memory:) is used so concurrent
// connections in the race tests see the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "healthsure_test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entity.Patient{}, &entity.Policy{}, &entity.PolicyEvent{})
	require.NoError(t, err)

	return db
}

func seedPatient(t *testing.T, db *gorm.DB, name, phone string) *entity.Patient {
	t.Helper()

	patient := &entity.Patient{
		ID:    uuid.New(),
		Name:  name,
		Phone: phone,
		City:  "Pune",
		DOB:   time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewPatientRepository().Create(db, patient))
	return patient
}

func seedPolicy(t *testing.T, db *gorm.DB, patientID uuid.UUID, policyNo string, status entity.PolicyStatus, endDate time.Time) *entity.Policy {
	t.Helper()

	policy := &entity.Policy{
		PolicyNo:   policyNo,
		PatientID:  patientID,
		Plan:       "Family Floater",
		SumInsured: decimal.NewFromInt(500000),
		StartDate:  endDate.AddDate(-1, 0, 0),
		EndDate:    endDate,
		Status:     status,
	}
	require.NoError(t, NewPolicyRepository().Create(db, policy))
	return policy
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

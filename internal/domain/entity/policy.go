package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyStatus represents the lifecycle status of a policy
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "Active"
	PolicyStatusCancelled PolicyStatus = "Cancelled"
	PolicyStatusExpired   PolicyStatus = "Expired"
)

// Policy represents an insurance policy owned by exactly one patient.
// The policy number is caller-supplied and immutable once created.
//
// Status transitions are enforced by the lifecycle usecase:
// Active -> Cancelled via cancel, {Active, Expired} -> Active via renew.
// Cancelled is terminal. Expired is never set by the engine; it only
// appears when a policy is created or imported with that status.
type Policy struct {
	PolicyNo     string          `gorm:"type:varchar(50);primaryKey" json:"policy_no"`
	PatientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	Plan         string          `gorm:"type:varchar(100);not null" json:"plan"`
	SumInsured   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"sum_insured"`
	StartDate    time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time       `gorm:"type:date;not null" json:"end_date"`
	Status       PolicyStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	CancelReason *string         `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Policy) TableName() string {
	return "policies"
}

// IsActive checks if the policy is currently active
func (p *Policy) IsActive() bool {
	return p.Status == PolicyStatusActive
}

// IsCancelled checks if the policy has been cancelled
func (p *Policy) IsCancelled() bool {
	return p.Status == PolicyStatusCancelled
}

// IsExpired checks if the stored status is expired
func (p *Policy) IsExpired() bool {
	return p.Status == PolicyStatusExpired
}

// PolicyStatusCounts holds the dashboard aggregates over the policies
// table. ExpiringSoon counts Active policies whose end date falls within
// the next 30 days inclusive.
type PolicyStatusCounts struct {
	Active       int64 `json:"active"`
	Cancelled    int64 `json:"cancelled"`
	Expired      int64 `json:"expired"`
	ExpiringSoon int64 `json:"expiringSoon"`
}

// ExpiringSoonWindow is how far ahead the dashboard looks for policies
// about to lapse.
const ExpiringSoonWindow = 30 * 24 * time.Hour

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePolicyRequest carries a new policy for a patient. The initial
// status is caller-supplied and stored as-is; the lifecycle guards only
// apply to renew and cancel.
type CreatePolicyRequest struct {
	PatientID  string          `json:"patientId" validate:"required,uuid"`
	PolicyNo   string          `json:"policyNo" validate:"required,max=50"`
	Plan       string          `json:"plan" validate:"required,max=100"`
	SumInsured decimal.Decimal `json:"sumInsured"`
	StartDate  string          `json:"startDate" validate:"required"`
	EndDate    string          `json:"endDate" validate:"required"`
	Status     string          `json:"status" validate:"required,max=20"`
}

type RenewPolicyRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type CancelPolicyRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type PolicyResponse struct {
	PolicyNo     string          `json:"policy_no"`
	PatientID    string          `json:"patient_id"`
	Plan         string          `json:"plan"`
	SumInsured   decimal.Decimal `json:"sum_insured"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Status       string          `json:"status"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
	Total    int              `json:"total"`
}

// PolicyStatsResponse holds the dashboard counters. The four counts are
// independent aggregates over the same table; expiringSoon is a subset
// of active.
type PolicyStatsResponse struct {
	Active       int64 `json:"active"`
	Cancelled    int64 `json:"cancelled"`
	Expired      int64 `json:"expired"`
	ExpiringSoon int64 `json:"expiringSoon"`
}

type PolicyEventResponse struct {
	ID        int64                  `json:"id"`
	PolicyNo  string                 `json:"policy_no"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type PolicyEventListResponse struct {
	Events []PolicyEventResponse `json:"events"`
	Total  int                   `json:"total"`
}

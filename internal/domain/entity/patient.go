package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient registered through intake. Patients are
// created once and never updated or deleted.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null;index" json:"phone"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	DOB       time.Time `gorm:"type:date;not null" json:"dob"`
	Email     *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	ImageURL  *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Policies []Policy `gorm:"foreignKey:PatientID" json:"policies,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// PatientWithPolicyCount is a Patient row annotated with the number of
// Active policies it owns, as produced by the search query.
type PatientWithPolicyCount struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	City     string    `json:"city"`
	DOB      time.Time `json:"dob"`
	Email    *string   `json:"email,omitempty"`
	ImageURL *string   `json:"image_url,omitempty"`
	Policies int64     `json:"policies"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

type CaregiverRole string

const (
	RoleCaregiver CaregiverRole = "caregiver"
	RoleAdmin     CaregiverRole = "admin"
)

// Caregiver is a care-team account allowed to read reports for the residents
// it is assigned to.
type Caregiver struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	FullName     string         `gorm:"column:full_name;type:text" json:"full_name"`
	PasswordHash string         `gorm:"column:password_hash;type:text" json:"-"`
	Role         CaregiverRole  `gorm:"column:role;type:text" json:"role"`
	ResidentIDs  pq.StringArray `gorm:"column:resident_ids;type:text[]" json:"resident_ids"`

	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	LastSignInAt time.Time `gorm:"column:last_sign_in_at;type:timestamptz" json:"last_sign_in_at"`
}

func (Caregiver) TableName() string { return "caregivers" }

package models

import (
	"time"

	"gorm.io/datatypes"
)

// CallReport is the persisted per-call output of the analysis engine: the
// summary and caregiver insights exactly as generated, stored as JSONB so the
// field shapes stay stable for the dashboard and any stored history.
// SecondOpinion is filled asynchronously by the LLM review worker.
type CallReport struct {
	CallID     string `gorm:"column:call_id;type:uuid;primaryKey" json:"call_id"`
	ResidentID string `gorm:"column:resident_id;type:uuid;index" json:"resident_id"`

	RiskLevel string `gorm:"column:risk_level;type:text;index" json:"risk_level"` // routine|elevated|critical

	Summary  datatypes.JSON `gorm:"column:summary;type:jsonb" json:"summary"`
	Insights datatypes.JSON `gorm:"column:insights;type:jsonb" json:"insights"`

	SecondOpinion       datatypes.JSON `gorm:"column:second_opinion;type:jsonb" json:"second_opinion,omitempty"`
	SecondOpinionStatus string         `gorm:"column:second_opinion_status;type:text" json:"second_opinion_status"` // pending|done|failed|skipped

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (CallReport) TableName() string { return "call_reports" }

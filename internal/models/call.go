package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Call struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CallID string             `bson:"call_id" json:"call_id"` // uuid v4
	// ResidentID identifies the vulnerable adult on the call; caregiver
	// accounts are scoped to residents they care for.
	ResidentID string `bson:"resident_id" json:"resident_id"`

	Channel string       `bson:"channel" json:"channel"` // phone|chat
	Status  string       `bson:"status" json:"status"`   // active|ended
	Context *CallContext `bson:"context,omitempty" json:"context,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	DurationSeconds int64 `bson:"duration_seconds" json:"duration_seconds"`
}

type CallContext struct {
	FacilityName  string `bson:"facility_name,omitempty" json:"facility_name,omitempty"`
	CompanionName string `bson:"companion_name,omitempty" json:"companion_name,omitempty"`
	Timezone      string `bson:"timezone,omitempty" json:"timezone,omitempty"`
}

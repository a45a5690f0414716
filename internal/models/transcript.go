package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TranscriptEntry is one accepted conversational event persisted per call.
// Role mirrors the engine's interaction types; Derived carries the per-turn
// computed fields (sentiment, coherence, pattern hits) as JSONB. Embedding is
// filled by the secondary LLM reviewer when configured, never by the
// deterministic pipeline.
type TranscriptEntry struct {
	ID         string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ResidentID string          `gorm:"column:resident_id;type:uuid;index" json:"resident_id"`
	CallID     string          `gorm:"column:call_id;type:uuid;index" json:"call_id"`
	Role       string          `gorm:"column:role;type:text" json:"role"` // user_utterance|assistant_response|interruption|function_call
	Text       string          `gorm:"column:text;type:text" json:"text"`
	Derived    datatypes.JSON  `gorm:"column:derived;type:jsonb" json:"derived"`
	Embedding  pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"embedding"`
	Timestamp  time.Time       `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (TranscriptEntry) TableName() string { return "transcript_entries" }

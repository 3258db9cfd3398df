package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryRecord is one query attempt against a dataset, successful or not.
// Records are append-only; they are removed only when their dataset is
// cascade-deleted.
type QueryRecord struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"-"`
	DatasetID       uuid.UUID `json:"dataset_id"`
	Question        string    `json:"question"`
	GeneratedSQL    string    `json:"generated_sql"`
	Success         bool      `json:"success"`
	Confidence      *float64  `json:"confidence,omitempty"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	ExecutionTimeMs int       `json:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Dataset represents one uploaded tabular file plus its derived physical
// table and metadata. The owner is immutable after creation.
type Dataset struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"-"`
	DatasetName      string    `json:"dataset_name"`
	OriginalFilename string    `json:"original_filename"`
	TableName        string    `json:"table_name"`
	ColumnNames      []string  `json:"column_names"`
	RowCount         int       `json:"row_count"`
	SizeBytes        int64     `json:"file_size_bytes"`
	ContentHash      string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ankita1800/chatdb-engine/pkg/database"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// QueryHistoryRepository records every question asked against a dataset.
type QueryHistoryRepository interface {
	Create(ctx context.Context, record *models.QueryRecord) error
	ListByDataset(ctx context.Context, userID string, datasetID uuid.UUID, limit int) ([]*models.QueryRecord, error)
	PurgeByDataset(ctx context.Context, userID string, datasetID uuid.UUID) error
}

// queryHistoryRepository implements QueryHistoryRepository using PostgreSQL.
type queryHistoryRepository struct {
	db *database.DB
}

// NewQueryHistoryRepository creates a new query history repository.
func NewQueryHistoryRepository(db *database.DB) QueryHistoryRepository {
	return &queryHistoryRepository{db: db}
}

// Create appends one history record.
func (r *queryHistoryRepository) Create(ctx context.Context, record *models.QueryRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO query_history (id, user_id, dataset_id, question, generated_sql, success, confidence, error_message, execution_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.DatasetID,
		record.Question,
		record.GeneratedSQL,
		record.Success,
		record.Confidence,
		record.ErrorMessage,
		record.ExecutionTimeMs,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}

	return nil
}

// ListByDataset returns the most recent history for one dataset owned by
// the user, newest first.
func (r *queryHistoryRepository) ListByDataset(ctx context.Context, userID string, datasetID uuid.UUID, limit int) ([]*models.QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, dataset_id, question, generated_sql, success, confidence, error_message, execution_time_ms, created_at
		FROM query_history
		WHERE user_id = $1 AND dataset_id = $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.Pool.Query(ctx, query, userID, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.QueryRecord, 0)
	for rows.Next() {
		var rec models.QueryRecord
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.DatasetID,
			&rec.Question,
			&rec.GeneratedSQL,
			&rec.Success,
			&rec.Confidence,
			&rec.ErrorMessage,
			&rec.ExecutionTimeMs,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read query history: %w", err)
	}

	return records, nil
}

// PurgeByDataset deletes all history for a dataset, used when the dataset
// itself is deleted.
func (r *queryHistoryRepository) PurgeByDataset(ctx context.Context, userID string, datasetID uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM query_history WHERE user_id = $1 AND dataset_id = $2`,
		userID, datasetID,
	)
	if err != nil {
		return fmt.Errorf("failed to purge query history: %w", err)
	}
	return nil
}

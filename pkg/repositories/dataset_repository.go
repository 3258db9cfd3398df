// Package repositories provides PostgreSQL data access for dataset metadata
// and query history.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/database"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// DatasetRepository defines the interface for dataset metadata access.
// Every lookup is scoped to the owning user; a dataset owned by someone else
// is indistinguishable from one that does not exist.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *models.Dataset) error
	Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error)
	List(ctx context.Context, userID string) ([]*models.Dataset, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	FindByContentHash(ctx context.Context, userID, contentHash string) (*models.Dataset, error)
	NameExists(ctx context.Context, userID, datasetName string) (bool, error)
}

// datasetRepository implements DatasetRepository using PostgreSQL.
type datasetRepository struct {
	db *database.DB
}

// NewDatasetRepository creates a new dataset repository.
func NewDatasetRepository(db *database.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

// Create inserts dataset metadata. A duplicate content hash for the same
// user maps to ErrConflict.
func (r *datasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	if dataset.ID == uuid.Nil {
		dataset.ID = uuid.New()
	}
	dataset.CreatedAt = time.Now()

	query := `
		INSERT INTO datasets (id, user_id, dataset_name, original_filename, table_name, column_names, row_count, size_bytes, content_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Pool.Exec(ctx, query,
		dataset.ID,
		dataset.UserID,
		dataset.DatasetName,
		dataset.OriginalFilename,
		dataset.TableName,
		dataset.ColumnNames,
		dataset.RowCount,
		dataset.SizeBytes,
		dataset.ContentHash,
		dataset.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	return nil
}

// Get fetches one dataset owned by the user.
func (r *datasetRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error) {
	query := `
		SELECT id, user_id, dataset_name, original_filename, table_name, column_names, row_count, size_bytes, content_hash, created_at
		FROM datasets
		WHERE id = $1 AND user_id = $2`

	dataset, err := scanDataset(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	return dataset, nil
}

// List returns all datasets owned by the user, newest first.
func (r *datasetRepository) List(ctx context.Context, userID string) ([]*models.Dataset, error) {
	query := `
		SELECT id, user_id, dataset_name, original_filename, table_name, column_names, row_count, size_bytes, content_hash, created_at
		FROM datasets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	datasets := make([]*models.Dataset, 0)
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read datasets: %w", err)
	}

	return datasets, nil
}

// Delete removes the metadata row for a dataset owned by the user.
func (r *datasetRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindByContentHash looks up a prior upload of the same bytes by the same
// user. Returns ErrNotFound when no duplicate exists.
func (r *datasetRepository) FindByContentHash(ctx context.Context, userID, contentHash string) (*models.Dataset, error) {
	query := `
		SELECT id, user_id, dataset_name, original_filename, table_name, column_names, row_count, size_bytes, content_hash, created_at
		FROM datasets
		WHERE user_id = $1 AND content_hash = $2`

	dataset, err := scanDataset(r.db.Pool.QueryRow(ctx, query, userID, contentHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dataset by content hash: %w", err)
	}

	return dataset, nil
}

// NameExists reports whether the user already has a dataset with this name.
func (r *datasetRepository) NameExists(ctx context.Context, userID, datasetName string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM datasets WHERE user_id = $1 AND dataset_name = $2)`,
		userID, datasetName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check dataset name: %w", err)
	}
	return exists, nil
}

// scanDataset reads one dataset row from either a Row or Rows.
func scanDataset(row pgx.Row) (*models.Dataset, error) {
	var d models.Dataset
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.DatasetName,
		&d.OriginalFilename,
		&d.TableName,
		&d.ColumnNames,
		&d.RowCount,
		&d.SizeBytes,
		&d.ContentHash,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

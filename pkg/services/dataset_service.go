// Package services implements the upload and question-answering flows on top
// of the repositories, provisioner, and object store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/ingest"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
	"github.com/Ankita1800/chatdb-engine/pkg/provisioner"
	"github.com/Ankita1800/chatdb-engine/pkg/repositories"
	"github.com/Ankita1800/chatdb-engine/pkg/storage"
)

// maxNameAttempts bounds the "name (N)" probing before degrading to a
// timestamp suffix.
const maxNameAttempts = 1000

// TableProvisioner creates and tears down per-dataset tables.
// *provisioner.Provisioner is the production implementation.
type TableProvisioner interface {
	CreateTable(ctx context.Context, tableName string, columns, columnTypes []string) error
	InsertRows(ctx context.Context, tableName, ownerID string, columns, columnTypes []string, rows [][]string) error
	DropTable(ctx context.Context, tableName string) error
}

var _ TableProvisioner = (*provisioner.Provisioner)(nil)

// UploadRequest carries one uploaded file and its dedup flags.
type UploadRequest struct {
	Filename string
	Data     []byte
	// Reuse returns the existing dataset when the same bytes were uploaded
	// before.
	Reuse bool
	// Force uploads anyway, creating a distinct dataset.
	Force bool
}

// UploadResult is the outcome of an upload. Exactly one of Duplicate,
// Reused, or a fresh Dataset applies.
type UploadResult struct {
	Duplicate bool
	Reused    bool
	Dataset   *models.Dataset
}

// DatasetService manages the dataset lifecycle.
type DatasetService interface {
	Upload(ctx context.Context, userID string, req UploadRequest) (*UploadResult, error)
	List(ctx context.Context, userID string) ([]*models.Dataset, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	History(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.QueryRecord, error)
}

type datasetService struct {
	datasets repositories.DatasetRepository
	history  repositories.QueryHistoryRepository
	prov     TableProvisioner
	store    storage.ObjectStore
	logger   *zap.Logger
}

var _ DatasetService = (*datasetService)(nil)

// NewDatasetService creates a new dataset service.
func NewDatasetService(
	datasets repositories.DatasetRepository,
	history repositories.QueryHistoryRepository,
	prov TableProvisioner,
	store storage.ObjectStore,
	logger *zap.Logger,
) DatasetService {
	return &datasetService{
		datasets: datasets,
		history:  history,
		prov:     prov,
		store:    store,
		logger:   logger.Named("datasets"),
	}
}

// Upload ingests a CSV file end to end: duplicate check, parse, object
// store write, table provisioning, and metadata registration. The three
// physical effects are not atomic; later-step failures trigger best-effort
// compensating cleanup and the original failure is what the caller sees.
func (s *datasetService) Upload(ctx context.Context, userID string, req UploadRequest) (*UploadResult, error) {
	if !strings.HasSuffix(strings.ToLower(req.Filename), ".csv") {
		return nil, fmt.Errorf("%w: only .csv files are supported", apperrors.ErrInvalidInput)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", apperrors.ErrInvalidInput)
	}

	contentHash := ingest.Fingerprint(req.Data)

	existing, err := s.datasets.FindByContentHash(ctx, userID, contentHash)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		if req.Reuse {
			return &UploadResult{Reused: true, Dataset: existing}, nil
		}
		if !req.Force {
			return &UploadResult{Duplicate: true, Dataset: existing}, nil
		}
		// Force: fall through and create a distinct dataset.
	}

	parsed, err := ingest.Parse(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	datasetName, err := s.generateUniqueName(ctx, userID, baseName(req.Filename))
	if err != nil {
		return nil, err
	}

	datasetID := uuid.New()
	tableName := "ds_" + strings.ReplaceAll(datasetID.String(), "-", "")

	objectKey := storage.ObjectKey(userID, datasetID.String(), req.Filename)
	if err := s.store.Put(ctx, objectKey, req.Data, "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	columnTypes := provisioner.InferColumnTypes(parsed.Columns, parsed.Rows)

	if err := s.prov.CreateTable(ctx, tableName, parsed.Columns, columnTypes); err != nil {
		s.cleanupObject(ctx, objectKey)
		return nil, err
	}

	if err := s.prov.InsertRows(ctx, tableName, userID, parsed.Columns, columnTypes, parsed.Rows); err != nil {
		s.cleanupTable(ctx, tableName)
		s.cleanupObject(ctx, objectKey)
		return nil, err
	}

	dataset := &models.Dataset{
		ID:               datasetID,
		UserID:           userID,
		DatasetName:      datasetName,
		OriginalFilename: req.Filename,
		TableName:        tableName,
		ColumnNames:      parsed.Columns,
		RowCount:         len(parsed.Rows),
		SizeBytes:        int64(len(req.Data)),
		ContentHash:      contentHash,
	}

	if err := s.datasets.Create(ctx, dataset); err != nil {
		s.cleanupTable(ctx, tableName)
		s.cleanupObject(ctx, objectKey)
		return nil, err
	}

	s.logger.Info("dataset uploaded",
		zap.String("dataset_id", datasetID.String()),
		zap.String("table", tableName),
		zap.Int("rows", dataset.RowCount))

	return &UploadResult{Dataset: dataset}, nil
}

// List returns the caller's datasets, newest first.
func (s *datasetService) List(ctx context.Context, userID string) ([]*models.Dataset, error) {
	return s.datasets.List(ctx, userID)
}

// Get fetches one of the caller's datasets.
func (s *datasetService) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error) {
	return s.datasets.Get(ctx, userID, id)
}

// Delete removes a dataset and everything attached to it. Metadata removal
// is the authoritative step; table, file, and history cleanup are
// best-effort because metadata is the source of truth for what exists.
func (s *datasetService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	dataset, err := s.datasets.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.datasets.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := s.history.PurgeByDataset(ctx, userID, id); err != nil {
		s.logger.Warn("failed to purge query history",
			zap.String("dataset_id", id.String()),
			zap.Error(err))
	}

	s.cleanupTable(ctx, dataset.TableName)
	s.cleanupObject(ctx, storage.ObjectKey(userID, id.String(), dataset.OriginalFilename))

	s.logger.Info("dataset deleted", zap.String("dataset_id", id.String()))
	return nil
}

// History returns recent queries against one of the caller's datasets.
func (s *datasetService) History(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.QueryRecord, error) {
	if _, err := s.datasets.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.history.ListByDataset(ctx, userID, id, limit)
}

// generateUniqueName probes "name", "name (2)", ... until a free name is
// found. A lookup failure degrades to a timestamp-suffixed name so the
// upload still succeeds; exhausting all probes means the owner somehow holds
// a thousand collisions and is treated as a hard error.
func (s *datasetService) generateUniqueName(ctx context.Context, userID, base string) (string, error) {
	exists, err := s.datasets.NameExists(ctx, userID, base)
	if err != nil {
		return s.timestampName(base, err), nil
	}
	if !exists {
		return base, nil
	}

	for n := 2; n <= maxNameAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		exists, err := s.datasets.NameExists(ctx, userID, candidate)
		if err != nil {
			return s.timestampName(base, err), nil
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("exhausted %d name candidates for %q", maxNameAttempts, base)
}

func (s *datasetService) timestampName(base string, cause error) string {
	name := fmt.Sprintf("%s %d", base, time.Now().Unix())
	s.logger.Warn("dataset name lookup failed, using timestamp-suffixed name",
		zap.String("name", name),
		zap.Error(cause))
	return name
}

func (s *datasetService) cleanupTable(ctx context.Context, tableName string) {
	if err := s.prov.DropTable(ctx, tableName); err != nil {
		s.logger.Warn("cleanup: failed to drop table",
			zap.String("table", tableName),
			zap.Error(err))
	}
}

func (s *datasetService) cleanupObject(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.logger.Warn("cleanup: failed to remove object",
			zap.String("key", key),
			zap.Error(err))
	}
}

// baseName strips the extension from the uploaded filename to seed the
// dataset name.
func baseName(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "dataset"
	}
	return name
}

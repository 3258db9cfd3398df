package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// fakeDatasetRepo is a configurable in-memory DatasetRepository.
type fakeDatasetRepo struct {
	CreateFunc            func(ctx context.Context, dataset *models.Dataset) error
	GetFunc               func(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error)
	ListFunc              func(ctx context.Context, userID string) ([]*models.Dataset, error)
	DeleteFunc            func(ctx context.Context, userID string, id uuid.UUID) error
	FindByContentHashFunc func(ctx context.Context, userID, contentHash string) (*models.Dataset, error)
	NameExistsFunc        func(ctx context.Context, userID, datasetName string) (bool, error)
}

func (f *fakeDatasetRepo) Create(ctx context.Context, dataset *models.Dataset) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, dataset)
	}
	return nil
}

func (f *fakeDatasetRepo) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, userID, id)
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDatasetRepo) List(ctx context.Context, userID string) ([]*models.Dataset, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (f *fakeDatasetRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (f *fakeDatasetRepo) FindByContentHash(ctx context.Context, userID, contentHash string) (*models.Dataset, error) {
	if f.FindByContentHashFunc != nil {
		return f.FindByContentHashFunc(ctx, userID, contentHash)
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDatasetRepo) NameExists(ctx context.Context, userID, datasetName string) (bool, error) {
	if f.NameExistsFunc != nil {
		return f.NameExistsFunc(ctx, userID, datasetName)
	}
	return false, nil
}

// fakeHistoryRepo records calls to the history repository.
type fakeHistoryRepo struct {
	CreateFunc func(ctx context.Context, record *models.QueryRecord) error

	Created []*models.QueryRecord
	Purged  []uuid.UUID
}

func (f *fakeHistoryRepo) Create(ctx context.Context, record *models.QueryRecord) error {
	f.Created = append(f.Created, record)
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, record)
	}
	return nil
}

func (f *fakeHistoryRepo) ListByDataset(ctx context.Context, userID string, datasetID uuid.UUID, limit int) ([]*models.QueryRecord, error) {
	return f.Created, nil
}

func (f *fakeHistoryRepo) PurgeByDataset(ctx context.Context, userID string, datasetID uuid.UUID) error {
	f.Purged = append(f.Purged, datasetID)
	return nil
}

// fakeProvisioner records table lifecycle calls.
type fakeProvisioner struct {
	CreateTableFunc func(ctx context.Context, tableName string, columns, columnTypes []string) error
	InsertRowsFunc  func(ctx context.Context, tableName, ownerID string, columns, columnTypes []string, rows [][]string) error

	Created []string
	Dropped []string
}

func (f *fakeProvisioner) CreateTable(ctx context.Context, tableName string, columns, columnTypes []string) error {
	f.Created = append(f.Created, tableName)
	if f.CreateTableFunc != nil {
		return f.CreateTableFunc(ctx, tableName, columns, columnTypes)
	}
	return nil
}

func (f *fakeProvisioner) InsertRows(ctx context.Context, tableName, ownerID string, columns, columnTypes []string, rows [][]string) error {
	if f.InsertRowsFunc != nil {
		return f.InsertRowsFunc(ctx, tableName, ownerID, columns, columnTypes, rows)
	}
	return nil
}

func (f *fakeProvisioner) DropTable(ctx context.Context, tableName string) error {
	f.Dropped = append(f.Dropped, tableName)
	return nil
}

// fakeObjectStore records object writes and removals.
type fakeObjectStore struct {
	PutFunc func(ctx context.Context, key string, data []byte, contentType string) error

	Stored  []string
	Removed []string
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.Stored = append(f.Stored, key)
	if f.PutFunc != nil {
		return f.PutFunc(ctx, key, data, contentType)
	}
	return nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, key string) error {
	f.Removed = append(f.Removed, key)
	return nil
}

// fakeExecutor returns canned query results.
type fakeExecutor struct {
	ExecuteFunc func(ctx context.Context, sql string) ([]map[string]any, error)

	LastSQL string
}

func (f *fakeExecutor) Execute(ctx context.Context, sql string) ([]map[string]any, error) {
	f.LastSQL = sql
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, sql)
	}
	return nil, nil
}

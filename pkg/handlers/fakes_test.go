package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
	"github.com/Ankita1800/chatdb-engine/pkg/services"
)

// fakeDatasetService is a configurable DatasetService for handler tests.
type fakeDatasetService struct {
	UploadFunc  func(ctx context.Context, userID string, req services.UploadRequest) (*services.UploadResult, error)
	ListFunc    func(ctx context.Context, userID string) ([]*models.Dataset, error)
	DeleteFunc  func(ctx context.Context, userID string, id uuid.UUID) error
	HistoryFunc func(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.QueryRecord, error)
}

func (f *fakeDatasetService) Upload(ctx context.Context, userID string, req services.UploadRequest) (*services.UploadResult, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, userID, req)
	}
	return &services.UploadResult{Dataset: &models.Dataset{}}, nil
}

func (f *fakeDatasetService) List(ctx context.Context, userID string) ([]*models.Dataset, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (f *fakeDatasetService) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Dataset, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeDatasetService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (f *fakeDatasetService) History(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.QueryRecord, error) {
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, userID, id, limit)
	}
	return nil, nil
}

// fakeAskService is a configurable AskService for handler tests.
type fakeAskService struct {
	AskFunc func(ctx context.Context, userID string, datasetID uuid.UUID, question string) (*services.AskResult, error)
}

func (f *fakeAskService) Ask(ctx context.Context, userID string, datasetID uuid.UUID, question string) (*services.AskResult, error) {
	if f.AskFunc != nil {
		return f.AskFunc(ctx, userID, datasetID, question)
	}
	return &services.AskResult{}, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/llm"
	"github.com/Ankita1800/chatdb-engine/pkg/logging"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
	"github.com/Ankita1800/chatdb-engine/pkg/repositories"
	"github.com/Ankita1800/chatdb-engine/pkg/scoring"
	"github.com/Ankita1800/chatdb-engine/pkg/sqlsafe"
)

// AskResult is the answer to one natural-language question.
type AskResult struct {
	Question      string  `json:"question"`
	GeneratedSQL  string  `json:"generated_sql"`
	Answer        string  `json:"answer"`
	DataFound     bool    `json:"data_found"`
	Confidence    float64 `json:"confidence"`
	LowConfidence bool    `json:"low_confidence,omitempty"`
}

// AskService answers questions about a dataset by translating them to SQL.
type AskService interface {
	Ask(ctx context.Context, userID string, datasetID uuid.UUID, question string) (*AskResult, error)
}

type askService struct {
	datasets   repositories.DatasetRepository
	history    repositories.QueryHistoryRepository
	translator llm.Translator
	executor   QueryExecutor
	timeout    time.Duration
	logger     *zap.Logger
}

var _ AskService = (*askService)(nil)

// NewAskService creates a new ask service. timeout bounds the translation
// call; zero means no bound.
func NewAskService(
	datasets repositories.DatasetRepository,
	history repositories.QueryHistoryRepository,
	translator llm.Translator,
	executor QueryExecutor,
	timeout time.Duration,
	logger *zap.Logger,
) AskService {
	return &askService{
		datasets:   datasets,
		history:    history,
		translator: translator,
		executor:   executor,
		timeout:    timeout,
		logger:     logger.Named("ask"),
	}
}

// Ask runs one question through the full pipeline. The history record is
// written on both the success and failure paths before the result or error
// is returned; a failed history write never fails the request.
func (s *askService) Ask(ctx context.Context, userID string, datasetID uuid.UUID, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrInvalidInput)
	}
	if check := sqlsafe.CheckQuestion(question); check != nil {
		s.logger.Warn("question rejected by injection screen",
			zap.String("fingerprint", check.Fingerprint))
		return nil, fmt.Errorf("%w: question contains a SQL injection pattern", apperrors.ErrInvalidInput)
	}

	dataset, err := s.datasets.Get(ctx, userID, datasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	raw, err := s.translate(ctx, question, dataset)
	if err != nil {
		s.record(ctx, userID, datasetID, question, "", false, nil, err, start)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	displaySQL := sqlsafe.ExtractStatement(raw)
	if displaySQL == "" {
		err := errors.New("model returned no SQL statement")
		s.record(ctx, userID, datasetID, question, "", false, nil, err, start)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	if err := sqlsafe.ValidateSingleStatement(displaySQL); err != nil {
		s.record(ctx, userID, datasetID, question, displaySQL, false, nil, err, start)
		return nil, fmt.Errorf("%w: %v (generated sql: %s)", apperrors.ErrExecutionFailed, err, displaySQL)
	}

	// The scoped statement is used only for execution. The display form is
	// what callers see and what history stores.
	execSQL := sqlsafe.ScopeToUser(displaySQL, userID)

	results, err := s.executor.Execute(ctx, execSQL)
	if err != nil {
		s.record(ctx, userID, datasetID, question, displaySQL, false, nil, err, start)
		return nil, fmt.Errorf("%w: %v (available columns: %s)",
			apperrors.ErrExecutionFailed, err, strings.Join(dataset.ColumnNames, ", "))
	}

	answer, dataFound := renderAnswer(results)
	scoreText := answer
	if !dataFound {
		scoreText = "[]"
	}
	confidence := scoring.Score(question, dataset.ColumnNames, scoreText)

	s.record(ctx, userID, datasetID, question, displaySQL, true, &confidence.Score, nil, start)

	result := &AskResult{
		Question:      question,
		GeneratedSQL:  displaySQL,
		Answer:        answer,
		DataFound:     dataFound,
		Confidence:    confidence.Score,
		LowConfidence: !confidence.Reliable,
	}

	s.logger.Info("question answered",
		zap.String("dataset_id", datasetID.String()),
		zap.String("sql", logging.SanitizeQuery(displaySQL)),
		zap.Bool("data_found", dataFound),
		zap.Float64("confidence", confidence.Score),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// translate calls the model with the translation timeout applied.
func (s *askService) translate(ctx context.Context, question string, dataset *models.Dataset) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.translator.Translate(ctx, question, dataset.TableName, dataset.ColumnNames)
}

// record appends a history row. Failures are logged and swallowed; history
// is observability, not correctness.
func (s *askService) record(ctx context.Context, userID string, datasetID uuid.UUID, question, displaySQL string, success bool, confidence *float64, cause error, start time.Time) {
	rec := &models.QueryRecord{
		UserID:          userID,
		DatasetID:       datasetID,
		Question:        question,
		GeneratedSQL:    displaySQL,
		Success:         success,
		Confidence:      confidence,
		ExecutionTimeMs: int(time.Since(start).Milliseconds()),
	}
	if cause != nil {
		msg := cause.Error()
		rec.ErrorMessage = &msg
	}

	if err := s.history.Create(ctx, rec); err != nil {
		s.logger.Warn("failed to record query history",
			zap.String("dataset_id", datasetID.String()),
			zap.Error(err))
	}
}

// renderAnswer serializes result rows for the client. An empty result set
// becomes a fixed no-data message with dataFound=false.
func renderAnswer(results []map[string]any) (string, bool) {
	if len(results) == 0 {
		return "No matching data found.", false
	}

	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Sprintf("%v", results), true
	}
	return string(encoded), true
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/llm"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

func newAskFixture(translator llm.Translator, executor QueryExecutor) (AskService, *fakeHistoryRepo, uuid.UUID) {
	id := uuid.New()
	dataset := &models.Dataset{
		ID:          id,
		UserID:      "user-1",
		TableName:   "ds_abc",
		ColumnNames: []string{"name", "age"},
	}
	datasets := &fakeDatasetRepo{
		GetFunc: func(ctx context.Context, userID string, gotID uuid.UUID) (*models.Dataset, error) {
			if userID == "user-1" && gotID == id {
				return dataset, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	history := &fakeHistoryRepo{}
	svc := NewAskService(datasets, history, translator, executor, time.Second, zap.NewNop())
	return svc, history, id
}

func TestAskSuccess(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "SELECT name, age FROM ds_abc WHERE age > 30;", nil
	}
	executor := &fakeExecutor{
		ExecuteFunc: func(ctx context.Context, sql string) ([]map[string]any, error) {
			return []map[string]any{{"name": "alice", "age": 31}}, nil
		},
	}
	svc, history, id := newAskFixture(translator, executor)

	result, err := svc.Ask(context.Background(), "user-1", id, "who is older than 30? show name and age")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if result.GeneratedSQL != "SELECT name, age FROM ds_abc WHERE age > 30" {
		t.Errorf("GeneratedSQL = %q, must be the unscoped display form", result.GeneratedSQL)
	}
	if !strings.Contains(executor.LastSQL, "user_id = 'user-1'") {
		t.Errorf("executed SQL %q must carry the tenancy predicate", executor.LastSQL)
	}
	if strings.Contains(result.GeneratedSQL, "user_id") {
		t.Error("tenancy predicate leaked into the display SQL")
	}
	if !result.DataFound {
		t.Error("DataFound = false, want true")
	}
	if result.Confidence < 0.5 || result.LowConfidence {
		t.Errorf("expected reliable confidence, got %v low=%v", result.Confidence, result.LowConfidence)
	}

	if len(history.Created) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.Created))
	}
	rec := history.Created[0]
	if !rec.Success || rec.Confidence == nil {
		t.Errorf("history record = %+v, want success with confidence", rec)
	}
	if strings.Contains(rec.GeneratedSQL, "user_id") {
		t.Error("tenancy predicate leaked into history")
	}
}

func TestAskOrConditionStaysScoped(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "SELECT * FROM ds_abc WHERE age > 30 OR name = 'bob'", nil
	}
	executor := &fakeExecutor{
		ExecuteFunc: func(ctx context.Context, sql string) ([]map[string]any, error) {
			return []map[string]any{{"name": "bob"}}, nil
		},
	}
	svc, _, id := newAskFixture(translator, executor)

	if _, err := svc.Ask(context.Background(), "user-1", id, "older than 30 or named bob?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	// The OR branch must not be able to match other owners' rows.
	want := "user_id = 'user-1' AND (age > 30 OR name = 'bob')"
	if !strings.Contains(executor.LastSQL, want) {
		t.Errorf("executed SQL %q must contain %q", executor.LastSQL, want)
	}
}

func TestAskNoData(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "SELECT * FROM ds_abc WHERE age > 200", nil
	}
	executor := &fakeExecutor{} // returns no rows
	svc, _, id := newAskFixture(translator, executor)

	result, err := svc.Ask(context.Background(), "user-1", id, "anyone older than 200?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if result.DataFound {
		t.Error("DataFound = true, want false")
	}
	if !result.LowConfidence {
		t.Error("empty result should be branded low confidence")
	}
	if result.Answer == "" {
		t.Error("no-data answer must still carry a message")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc, history, id := newAskFixture(llm.NewMockTranslator(), &fakeExecutor{})

	_, err := svc.Ask(context.Background(), "user-1", id, "   ")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Ask(blank) error = %v, want ErrInvalidInput", err)
	}
	if len(history.Created) != 0 {
		t.Error("rejected question must not reach history")
	}
}

func TestAskInjectionScreened(t *testing.T) {
	translator := llm.NewMockTranslator()
	svc, _, id := newAskFixture(translator, &fakeExecutor{})

	_, err := svc.Ask(context.Background(), "user-1", id, "' OR 1=1 --")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Ask(injection) error = %v, want ErrInvalidInput", err)
	}
	if translator.TranslateCalls != 0 {
		t.Error("screened question must never reach the model")
	}
}

func TestAskDatasetNotOwned(t *testing.T) {
	svc, _, id := newAskFixture(llm.NewMockTranslator(), &fakeExecutor{})

	_, err := svc.Ask(context.Background(), "user-2", id, "how many rows?")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Ask(foreign dataset) error = %v, want ErrNotFound", err)
	}
}

func TestAskTranslationFailureRecorded(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "", errors.New("model unavailable")
	}
	svc, history, id := newAskFixture(translator, &fakeExecutor{})

	_, err := svc.Ask(context.Background(), "user-1", id, "how many rows?")
	if !errors.Is(err, apperrors.ErrTranslationFailed) {
		t.Fatalf("Ask() error = %v, want ErrTranslationFailed", err)
	}

	if len(history.Created) != 1 {
		t.Fatalf("failed translation must still be recorded, got %d records", len(history.Created))
	}
	rec := history.Created[0]
	if rec.Success || rec.ErrorMessage == nil {
		t.Errorf("history record = %+v, want failure with error message", rec)
	}
}

func TestAskMultipleStatementsRejected(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "SELECT count(*) FROM ds_abc; DROP TABLE ds_abc", nil
	}
	svc, _, id := newAskFixture(translator, &fakeExecutor{})

	// Extraction stops at the first semicolon, so only the first statement
	// survives.
	result, err := svc.Ask(context.Background(), "user-1", id, "how many rows?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if strings.Contains(result.GeneratedSQL, "DROP TABLE") {
		t.Errorf("GeneratedSQL = %q, second statement must be discarded", result.GeneratedSQL)
	}
}

func TestAskSemicolonInFallbackOutputRejected(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		// No statement keyword, so the whole output passes through to
		// validation and the embedded semicolon must stop it there.
		return "TRUNCATE ds_abc; VACUUM", nil
	}
	executor := &fakeExecutor{}
	svc, history, id := newAskFixture(translator, executor)

	_, err := svc.Ask(context.Background(), "user-1", id, "clear everything")
	if !errors.Is(err, apperrors.ErrExecutionFailed) {
		t.Fatalf("Ask() error = %v, want ErrExecutionFailed", err)
	}
	if executor.LastSQL != "" {
		t.Errorf("executor ran %q, rejected statement must never execute", executor.LastSQL)
	}
	if len(history.Created) != 1 || history.Created[0].Success {
		t.Errorf("rejection must be recorded as a failed attempt, got %+v", history.Created)
	}
}

func TestAskExecutionFailure(t *testing.T) {
	translator := llm.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, question, tableName string, columns []string) (string, error) {
		return "SELECT bogus FROM ds_abc", nil
	}
	executor := &fakeExecutor{
		ExecuteFunc: func(ctx context.Context, sql string) ([]map[string]any, error) {
			return nil, errors.New(`column "bogus" does not exist`)
		},
	}
	svc, history, id := newAskFixture(translator, executor)

	_, err := svc.Ask(context.Background(), "user-1", id, "what is bogus?")
	if !errors.Is(err, apperrors.ErrExecutionFailed) {
		t.Fatalf("Ask() error = %v, want ErrExecutionFailed", err)
	}
	// The error hint lists the dataset's actual columns.
	if !strings.Contains(err.Error(), "name, age") {
		t.Errorf("error %q should hint at available columns", err)
	}

	if len(history.Created) != 1 || history.Created[0].Success {
		t.Error("execution failure must be recorded as unsuccessful")
	}
}

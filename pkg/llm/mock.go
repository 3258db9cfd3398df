package llm

import "context"

// MockTranslator is a configurable mock for testing translation flows.
// Set the function field to control behavior in tests.
type MockTranslator struct {
	// TranslateFunc is called when Translate is invoked.
	// If nil, returns an empty string and nil error.
	TranslateFunc func(ctx context.Context, question, tableName string, columns []string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// TranslateCalls counts invocations for verification.
	TranslateCalls int
}

var _ Translator = (*MockTranslator)(nil)

// NewMockTranslator creates a mock with sensible defaults.
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{ModelName: "mock-model"}
}

func (m *MockTranslator) Translate(ctx context.Context, question, tableName string, columns []string) (string, error) {
	m.TranslateCalls++
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, question, tableName, columns)
	}
	return "", nil
}

func (m *MockTranslator) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

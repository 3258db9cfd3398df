// Package llm translates natural-language questions into SQL using an
// OpenAI-compatible or Anthropic model endpoint.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// systemPrompt instructs the model to answer with SQL only. The extraction
// step still tolerates prose around the statement.
const systemPrompt = `You are a SQL generator for PostgreSQL. Given a table schema and a question, respond with a single SQL statement that answers the question. Respond with SQL only, no explanation.`

// Translator turns a question about one dataset table into raw model
// output. The output is untrusted free text; callers must extract and
// validate the statement themselves.
type Translator interface {
	Translate(ctx context.Context, question, tableName string, columns []string) (string, error)
	Model() string
}

// BuildPrompt assembles the schema context and question into the user
// prompt sent to the model.
func BuildPrompt(question, tableName string, columns []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", tableName)
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(columns, ", "))
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

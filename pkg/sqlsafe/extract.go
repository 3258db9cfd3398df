// Package sqlsafe extracts, validates, and tenancy-scopes SQL statements
// produced by the translation model.
package sqlsafe

import (
	"regexp"
	"strings"
)

// statementPattern matches the first SQL statement in free text: a statement
// keyword followed by anything up to a terminating semicolon or end of input.
var statementPattern = regexp.MustCompile(`(?is)\b(?:select|insert|update|delete)\b[\s\S]*?(?:;|\z)`)

// ExtractStatement pulls the first SQL statement out of raw model output.
// Model output is untrusted free text and may wrap the statement in prose or
// markdown fences. If no statement keyword is found the entire trimmed output
// is returned as-is, so a bad translation fails loudly at execution instead
// of being silently dropped.
func ExtractStatement(raw string) string {
	cleaned := stripCodeFences(raw)

	match := statementPattern.FindString(cleaned)
	if match == "" {
		return strings.TrimSpace(cleaned)
	}

	match = strings.TrimSpace(match)
	match = strings.TrimSuffix(match, ";")
	return strings.TrimSpace(match)
}

// stripCodeFences removes markdown code fence markers so the statement
// pattern sees the SQL inside them.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "\n")
	s = strings.ReplaceAll(s, "```", "\n")
	return s
}

package sqlsafe

import (
	"errors"
	"strings"
)

// ErrMultipleStatements indicates the input contains more than one SQL
// statement.
var ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

// ValidateSingleStatement checks that the statement contains no semicolons
// outside of string literals. Callers are expected to have already trimmed
// the trailing semicolon.
func ValidateSingleStatement(stmt string) error {
	if hasSemicolonOutsideStrings(strings.TrimSpace(stmt)) {
		return ErrMultipleStatements
	}
	return nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of single- or double-quoted literals.
func hasSemicolonOutsideStrings(stmt string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range stmt {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL doubled quote ('').
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

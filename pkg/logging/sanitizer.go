package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log.
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx until the next delimiter.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches user:pass@host credentials inside connection URLs.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection string
// before it is logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeQuery truncates a SQL statement for logging. Statements may embed
// user data in literals, so only a prefix is ever logged.
func SanitizeQuery(query string) string {
	if len(query) > MaxQueryLogLength {
		return query[:MaxQueryLogLength] + "..."
	}
	return query
}

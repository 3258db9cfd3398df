package sqlsafe

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wherePattern  = regexp.MustCompile(`(?i)\bwhere\b`)
	clausePattern = regexp.MustCompile(`(?i)\b(order\s+by|group\s+by|limit)\b`)
)

// ScopeToUser rewrites a statement so it can only touch the caller's rows.
// The returned execution-form statement always contains a user_id equality
// predicate; the unscoped display-form is what callers show to users and
// store in history.
//
// This is a textual rewrite, not a parser-level guarantee. A WHERE clause
// inside a subquery can defeat it; see the package tests for the shapes it
// does handle.
func ScopeToUser(stmt, userID string) string {
	predicate := fmt.Sprintf("user_id = '%s'", escapeLiteral(userID))

	if strings.Contains(strings.ToLower(stmt), strings.ToLower(predicate)) {
		return stmt
	}

	if loc := wherePattern.FindStringIndex(stmt); loc != nil {
		// Conjoin with the existing condition right after WHERE. The whole
		// condition is parenthesized so an OR cannot escape the predicate.
		rest := stmt[loc[1]:]
		tail := ""
		if cl := clausePattern.FindStringIndex(rest); cl != nil {
			tail = " " + strings.TrimLeft(rest[cl[0]:], " \t\n\r")
			rest = rest[:cl[0]]
		}
		cond := strings.Trim(rest, " \t\n\r;")
		return stmt[:loc[1]] + " " + predicate + " AND (" + cond + ")" + tail
	}

	if loc := clausePattern.FindStringIndex(stmt); loc != nil {
		// No WHERE, but a trailing clause exists: inject before it.
		return stmt[:loc[0]] + "WHERE " + predicate + " " + stmt[loc[0]:]
	}

	return strings.TrimRight(stmt, " \t\n\r") + " WHERE " + predicate
}

// escapeLiteral doubles single quotes so the owner id is safe inside a SQL
// string literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

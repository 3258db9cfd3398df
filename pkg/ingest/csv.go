// Package ingest parses uploaded CSV files into tabular rows suitable for
// table provisioning.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyFile indicates the upload contained no parseable content.
	ErrEmptyFile = errors.New("file is empty")
	// ErrNoDataRows indicates the CSV had a header but no data rows.
	ErrNoDataRows = errors.New("csv contains no data rows")
)

// ParsedCSV is the materialized form of an uploaded CSV file.
type ParsedCSV struct {
	// Columns are the sanitized column names, aligned with each row.
	Columns []string
	// Rows holds the data rows in file order. Each row has len(Columns) cells.
	Rows [][]string
}

// Fingerprint returns the hex-encoded SHA-256 hash of the raw file bytes.
// Identical bytes always produce identical fingerprints, which is what
// duplicate detection keys on.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse reads the raw CSV bytes into sanitized columns and aligned rows.
// Rows whose field count does not match the header are skipped rather than
// failing the whole upload.
func Parse(data []byte) (*ParsedCSV, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := SanitizeColumns(header)

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(record) != len(columns) {
			continue
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	return &ParsedCSV{Columns: columns, Rows: rows}, nil
}

// SanitizeColumns normalizes header names into safe, lowercase identifiers
// and renames source columns that would collide with the system columns.
// A source column literally named "id" or "user_id" (case-insensitive)
// becomes "original_id" / "original_user_id". Duplicate names after
// normalization get a numeric suffix so the table can always be created.
func SanitizeColumns(header []string) []string {
	out := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		name := normalizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		switch name {
		case "id":
			name = "original_id"
		case "user_id":
			name = "original_user_id"
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
			}
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// normalizeColumnName converts an arbitrary header cell into a lowercase
// identifier containing only [a-z0-9_].
func normalizeColumnName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastUnderscore := false
	for _, r := range s {
		if r == ' ' || r == '-' || r == '.' || r == '/' || r == '\\' || r == ':' || r == ';' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastUnderscore = (r == '_')
			continue
		}
		// Drop everything else.
	}

	return strings.Trim(b.String(), "_")
}

package ingest

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte("Name,Age,City\nalice,30,berlin\nbob,25,paris\n")

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantColumns := []string{"name", "age", "city"}
	if !reflect.DeepEqual(parsed.Columns, wantColumns) {
		t.Errorf("Columns = %v, want %v", parsed.Columns, wantColumns)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(parsed.Rows))
	}
	if parsed.Rows[0][0] != "alice" || parsed.Rows[1][2] != "paris" {
		t.Errorf("unexpected row data: %v", parsed.Rows)
	}
}

func TestParseSkipsRaggedRows(t *testing.T) {
	data := []byte("a,b\n1,2\n3\n4,5,6\n7,8\n")

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Rows) != 2 {
		t.Errorf("got %d rows, want 2 (ragged rows skipped)", len(parsed.Rows))
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := Parse([]byte("  \n ")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Parse(blank) error = %v, want ErrEmptyFile", err)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	if _, err := Parse([]byte("a,b,c\n")); !errors.Is(err, ErrNoDataRows) {
		t.Errorf("Parse(header only) error = %v, want ErrNoDataRows", err)
	}
}

func TestSanitizeColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "reserved names renamed",
			header: []string{"id", "user_id", "amount"},
			want:   []string{"original_id", "original_user_id", "amount"},
		},
		{
			name:   "reserved rename is case-insensitive",
			header: []string{"ID", "User_ID"},
			want:   []string{"original_id", "original_user_id"},
		},
		{
			name:   "spaces and punctuation become underscores",
			header: []string{"First Name", "e-mail address", "price ($)"},
			want:   []string{"first_name", "e_mail_address", "price"},
		},
		{
			name:   "blank header gets positional name",
			header: []string{"", "value"},
			want:   []string{"column_1", "value"},
		},
		{
			name:   "duplicate headers get numeric suffixes",
			header: []string{"value", "Value", "value"},
			want:   []string{"value", "value_2", "value_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeColumns(tt.header)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeColumns(%v) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("name,age\nalice,30\n"))
	b := Fingerprint([]byte("name,age\nalice,30\n"))
	c := Fingerprint([]byte("name,age\nbob,25\n"))

	if a != b {
		t.Error("identical bytes must produce identical fingerprints")
	}
	if a == c {
		t.Error("different bytes must produce different fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

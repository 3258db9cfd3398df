// Package provisioner creates and populates per-dataset Postgres tables.
package provisioner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/database"
)

// Provisioner manages the lifecycle of dataset tables.
type Provisioner struct {
	db     *database.DB
	logger *zap.Logger
}

// New creates a Provisioner backed by the given connection pool.
func New(db *database.DB, logger *zap.Logger) *Provisioner {
	return &Provisioner{db: db, logger: logger}
}

// InferColumnTypes picks a Postgres type for each column by scanning the
// data rows. A column is bigint only if every non-empty value parses as a
// 64-bit integer, double precision if every value parses as a number, and
// text otherwise. Columns with no non-empty values fall back to text.
// Integers get bigint rather than integer so id and timestamp columns past
// 2^31 load without overflow.
func InferColumnTypes(columns []string, rows [][]string) []string {
	types := make([]string, len(columns))

	for col := range columns {
		allInt := true
		allFloat := true
		seen := false

		for _, row := range rows {
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			seen = true
			if allInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					allInt = false
				}
			}
			if allFloat {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					allFloat = false
				}
			}
			if !allFloat {
				break
			}
		}

		switch {
		case !seen:
			types[col] = "text"
		case allInt:
			types[col] = "bigint"
		case allFloat:
			types[col] = "double precision"
		default:
			types[col] = "text"
		}
	}

	return types
}

// CreateTable creates the dataset table with a surrogate primary key, an
// indexed owner column, and one column per CSV column with the inferred
// type.
func (p *Provisioner) CreateTable(ctx context.Context, tableName string, columns, columnTypes []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", quoteIdent(tableName))
	b.WriteString("    id bigserial PRIMARY KEY,\n")
	b.WriteString("    user_id text NOT NULL")
	for i, col := range columns {
		fmt.Fprintf(&b, ",\n    %s %s", quoteIdent(col), columnTypes[i])
	}
	b.WriteString("\n)")

	if _, err := p.db.Pool.Exec(ctx, b.String()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	indexSQL := fmt.Sprintf("CREATE INDEX %s ON %s (user_id)",
		quoteIdent("idx_"+tableName+"_user_id"), quoteIdent(tableName))
	if _, err := p.db.Pool.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("failed to index table %s: %w", tableName, err)
	}

	p.logger.Debug("created dataset table",
		zap.String("table", tableName),
		zap.Int("columns", len(columns)))

	return nil
}

// InsertRows bulk-loads the parsed rows, stamping every row with the owner.
// Cells are converted to the inferred column types; empty cells become NULL.
func (p *Provisioner) InsertRows(ctx context.Context, tableName, ownerID string, columns, columnTypes []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	copyColumns := make([]string, 0, len(columns)+1)
	copyColumns = append(copyColumns, "user_id")
	copyColumns = append(copyColumns, columns...)

	source := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		values := make([]any, 0, len(columns)+1)
		values = append(values, ownerID)
		for col, cell := range rows[i] {
			v, err := convertCell(cell, columnTypes[col])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, columns[col], err)
			}
			values = append(values, v)
		}
		return values, nil
	})

	n, err := p.db.Pool.CopyFrom(ctx, pgx.Identifier{tableName}, copyColumns, source)
	if err != nil {
		return fmt.Errorf("failed to load rows into %s: %w", tableName, err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("loaded %d of %d rows into %s", n, len(rows), tableName)
	}

	return nil
}

// DropTable removes the dataset table. Dropping a table that no longer
// exists is not an error.
func (p *Provisioner) DropTable(ctx context.Context, tableName string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName))
	if _, err := p.db.Pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	p.logger.Debug("dropped dataset table", zap.String("table", tableName))
	return nil
}

// convertCell turns a CSV cell into the Go value pgx should encode for the
// given Postgres type. Empty cells map to NULL.
func convertCell(cell, pgType string) (any, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	switch pgType {
	case "bigint":
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", cell, err)
		}
		return n, nil
	case "double precision":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", cell, err)
		}
		return f, nil
	default:
		return cell, nil
	}
}

// quoteIdent double-quotes a Postgres identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

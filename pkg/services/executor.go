package services

import (
	"context"
	"fmt"

	"github.com/Ankita1800/chatdb-engine/pkg/database"
)

// maxResultRows caps how many rows an answer can carry back to the client.
const maxResultRows = 1000

// QueryExecutor runs an execution-form statement and returns its rows.
type QueryExecutor interface {
	Execute(ctx context.Context, sql string) ([]map[string]any, error)
}

// pgExecutor executes against the shared connection pool.
type pgExecutor struct {
	db *database.DB
}

var _ QueryExecutor = (*pgExecutor)(nil)

// NewQueryExecutor creates an executor backed by the given pool.
func NewQueryExecutor(db *database.DB) QueryExecutor {
	return &pgExecutor{db: db}
}

// Execute runs the statement and materializes up to maxResultRows rows as
// column-name keyed maps.
func (e *pgExecutor) Execute(ctx context.Context, sql string) ([]map[string]any, error) {
	rows, err := e.db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	results := make([]map[string]any, 0)

	for rows.Next() {
		if len(results) >= maxResultRows {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return results, nil
}

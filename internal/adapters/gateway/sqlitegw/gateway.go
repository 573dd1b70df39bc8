package sqlitegw

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clubhouse/internal/adapters/gateway"
)

// Store implements the gateway contract on an embedded SQLite database, for
// deployments that do not use the hosted remote store.
type Store struct {
	db *sql.DB
}

// New creates a Store over an initialized database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping checks database health.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SelectAll returns every row of a table.
func (s *Store) SelectAll(ctx context.Context, table string) ([]gateway.Row, error) {
	cols, err := columnsFor(table)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+strings.Join(cols, ", ")+` FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []gateway.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("select %s: scan: %w", table, err)
		}
		row := make(gateway.Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Insert appends rows to a table.
func (s *Store) Insert(ctx context.Context, table string, rows []gateway.Row) error {
	cols, err := columnsFor(table)
	if err != nil {
		return err
	}
	placeholders := "?" + strings.Repeat(", ?", len(cols)-1)
	query := `INSERT INTO ` + table + ` (` + strings.Join(cols, ", ") + `)
		 VALUES (` + placeholders + `)`

	for _, row := range rows {
		args := make([]any, len(cols))
		for i, col := range cols {
			args[i] = sqlValue(row[col])
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Update applies a partial row to the record whose id matches. Patch keys
// outside the table's column list are ignored.
func (s *Store) Update(ctx context.Context, table string, patch gateway.Row, id string) error {
	cols, err := columnsFor(table)
	if err != nil {
		return err
	}
	var sets []string
	var args []any
	for _, col := range cols {
		if col == "id" {
			continue
		}
		if v, ok := patch[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, sqlValue(v))
		}
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err = s.db.ExecContext(ctx,
		`UPDATE `+table+` SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete removes the record whose id matches.
func (s *Store) Delete(ctx context.Context, table string, id string) error {
	if _, err := columnsFor(table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func columnsFor(table string) ([]string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	return cols, nil
}

// sqlValue converts codec values into driver-friendly ones.
func sqlValue(v any) any {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case nil:
		return ""
	default:
		return v
	}
}

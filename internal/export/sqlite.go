// Package export mirrors a materialized table into a SQLite database.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"catalogcsv/internal/models"
)

// DefaultTable is the table name used for product snapshots.
const DefaultTable = "products"

// ErrNoHeader is returned when there is no header row to derive columns from.
var ErrNoHeader = errors.New("export: table has no header row")

// columnTypes gives numeric affinity to the columns that hold numbers.
var columnTypes = map[string]string{
	"quantity":              "INTEGER",
	"price":                 "REAL",
	"cost":                  "REAL",
	"purchase_cost":         "REAL",
	"shipping_cost":         "REAL",
	"total_cost":            "REAL",
	"profit_per_unit":       "REAL",
	"total_inventory_value": "REAL",
	"potential_profit":      "REAL",
	"weight":                "REAL",
	"length":                "REAL",
	"width":                 "REAL",
	"height":                "REAL",
}

// Snapshot is a database built next to its destination but not yet moved
// into place.
type Snapshot struct {
	tmp  string
	path string
}

// BuildSQLite writes rows into a new database beside path. rows[0] is the
// header. Nothing at path changes until Commit.
func BuildSQLite(ctx context.Context, path, table string, rows []models.Record) (*Snapshot, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoHeader
	}

	if table == "" {
		table = DefaultTable
	}

	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := writeDB(ctx, tmp, table, rows); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}

	return &Snapshot{tmp: tmp, path: path}, nil
}

// Path returns the destination of the snapshot.
func (s *Snapshot) Path() string {
	return s.path
}

// Commit renames the snapshot over its destination.
func (s *Snapshot) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}

// Discard removes an uncommitted snapshot. It is a no-op after Commit.
func (s *Snapshot) Discard() {
	_ = os.Remove(s.tmp)
}

// WriteSQLite replaces the database at path with a single table holding rows.
func WriteSQLite(ctx context.Context, path, table string, rows []models.Record) error {
	snap, err := BuildSQLite(ctx, path, table, rows)
	if err != nil {
		return err
	}

	return snap.Commit()
}

func writeDB(ctx context.Context, path, table string, rows []models.Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer db.Close()

	cols := rows[0]

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, CreateTableSQL(table, cols)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertSQL(table, cols))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows[1:] {
		if len(row) != len(cols) {
			return fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(cols))
		}

		args := make([]any, len(cols))
		for j, c := range cols {
			args[j] = sqliteValue(c, row[j])
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if indexSKU(cols) {
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s("sku")`, quoteIdent("idx_"+table+"_sku"), quoteIdent(table))
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// CreateTableSQL returns the CREATE TABLE statement for cols.
func CreateTableSQL(table string, cols []string) string {
	defs := make([]string, len(cols))

	for i, c := range cols {
		t := columnTypes[c]
		if t == "" {
			t = "TEXT"
		}

		defs[i] = quoteIdent(c) + " " + t
	}

	return `CREATE TABLE ` + quoteIdent(table) + ` (` + strings.Join(defs, ", ") + `)`
}

// InsertSQL returns a parameterized INSERT for cols.
func InsertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")

	return `INSERT INTO ` + quoteIdent(table) + ` (` + strings.Join(quoted, ", ") + `) VALUES (` + ph + `)`
}

// sqliteValue stores empty numeric cells as NULL and everything else as text;
// column affinity converts numeric text.
func sqliteValue(col, v string) any {
	if v == "" && columnTypes[col] != "" {
		return nil
	}

	return v
}

func indexSKU(cols []string) bool {
	for _, c := range cols {
		if c == "sku" {
			return true
		}
	}

	return false
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

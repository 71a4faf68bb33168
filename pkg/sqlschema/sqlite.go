package sqlschema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteDriverName is the database/sql driver registered by go-sqlite3.
const SQLiteDriverName = "sqlite3"

// SQLiteCatalog reads metadata through SQLite PRAGMAs.
type SQLiteCatalog struct {
	db *sql.DB
}

var _ Catalog = (*SQLiteCatalog)(nil)

// NewSQLiteCatalog wraps an open SQLite handle.
func NewSQLiteCatalog(db *sql.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

// OpenSQLite opens a SQLite database. In-memory databases are pinned to a
// single connection so every query sees the same schema.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open(SQLiteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: open sqlite: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func (c *SQLiteCatalog) Driver() string {
	return "sqlite"
}

func (c *SQLiteCatalog) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (c *SQLiteCatalog) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := c.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid      int
			col      Column
			notNull  int
			defValue sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defValue, &pk); err != nil {
			return nil, err
		}
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (c *SQLiteCatalog) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := c.db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var (
			id, seq            int
			fk                 ForeignKey
			refColumn          sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &fk.RefTable, &fk.Column, &refColumn, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		fk.RefColumn = refColumn.String
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

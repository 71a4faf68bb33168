package sqlschema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresSchema is introspected when no schema name is given.
const DefaultPostgresSchema = "public"

// Querier is the subset of pgxpool.Pool and pgx.Conn used by the catalog.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresCatalog reads metadata from information_schema and pg_catalog.
type PostgresCatalog struct {
	db     Querier
	schema string
}

var _ Catalog = (*PostgresCatalog)(nil)

// NewPostgresCatalog wraps a pgx pool or connection. An empty schema name
// selects DefaultPostgresSchema.
func NewPostgresCatalog(db Querier, schema string) *PostgresCatalog {
	if strings.TrimSpace(schema) == "" {
		schema = DefaultPostgresSchema
	}
	return &PostgresCatalog{db: db, schema: schema}
}

// OpenPostgres connects a pgx pool and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sqlschema: ping postgres: %w", err)
	}
	return pool, nil
}

func (c *PostgresCatalog) Driver() string {
	return "postgres"
}

func (c *PostgresCatalog) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, c.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (c *PostgresCatalog) Columns(ctx context.Context, table string) ([]Column, error) {
	primary, err := c.primaryKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, `
		SELECT
			c.column_name,
			c.udt_name,
			COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int), '')
		FROM information_schema.columns c
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Comment); err != nil {
			return nil, err
		}
		_, col.PrimaryKey = primary[col.Name]
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (c *PostgresCatalog) primaryKeys(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := c.db.Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out, nil
}

func (c *PostgresCatalog) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := c.db.Query(ctx, `
		SELECT
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

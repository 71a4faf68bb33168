package sqlschema

import (
	"context"
	"fmt"
	"strings"
)

// Open connects to the database named by driver and returns its catalog along
// with a function releasing the connection. Supported drivers are "sqlite"
// (alias "sqlite3") and "postgres" (aliases "postgresql", "pgx"). schema
// selects the Postgres schema and is ignored for SQLite.
func Open(ctx context.Context, driver, dsn, schema string) (Catalog, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlschema: dsn is required")
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		db, err := OpenSQLite(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlschema: ping sqlite: %w", err)
		}
		return NewSQLiteCatalog(db), func() { _ = db.Close() }, nil
	case "postgres", "postgresql", "pgx":
		pool, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresCatalog(pool, schema), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("sqlschema: unsupported driver %q", driver)
	}
}

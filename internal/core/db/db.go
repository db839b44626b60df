// Package db provides database connection management and migration support
// for the saved-query store.
//
// Supports SQLite (local use, tests) and PostgreSQL (shared deployments) via
// sqlx for connection pooling and query helpers. Migrations are embedded SQL
// files applied by a small runner with checksum validation.
package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connection pool limits based on PostgreSQL defaults and expected instances
// 16 max open connections per instance (100 server max / ~6 instances)
// 4 idle connections balance resource usage vs reconnection latency
const (
	maxOpenConns    = 16
	maxIdleConns    = 4
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// ParseURL maps a database URL to a driver name and data source.
// sqlite://file.db is relative, sqlite:///abs/path absolute;
// postgres:// and postgresql:// URLs are passed to lib/pq unchanged.
func ParseURL(dbURL string) (driverName, dataSource string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		// sqlite://file.db uses host+path (relative),
		// sqlite:///absolute/path uses path-only (absolute with empty host)
		if u.Host != "" {
			dataSource = u.Host + u.Path
		} else {
			dataSource = u.Path
		}
		if dataSource == "" {
			return "", "", fmt.Errorf("invalid database URL: sqlite path is empty")
		}
		// Foreign keys and a busy timeout make concurrent CLI use predictable
		return DriverSQLite, dataSource + "?_foreign_keys=on&_busy_timeout=5000", nil
	case "postgres", "postgresql":
		return DriverPostgres, dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %q (expected sqlite or postgres)", u.Scheme)
	}
}

// Open establishes a database connection from a URL and configures connection pooling.
func Open(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	driverName, dataSource, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

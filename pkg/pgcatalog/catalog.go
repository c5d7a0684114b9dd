// SPDX-License-Identifier: Apache-2.0

// Package pgcatalog introspects a PostgreSQL database's schemas, tables,
// columns, constraints, indexes, sequences, views, functions, triggers and
// extensions, computes volumetrics and flags Snowflake compatibility
// concerns.
package pgcatalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/lib/pq"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

const (
	maxBackoffDuration = 30 * time.Second
	backoffInterval    = 500 * time.Millisecond
)

// retryableConnErrorCode is the lib/pq error code for "too many
// connections" - transient and worth a short retry, unlike most catalog
// query failures which are programmer or permission errors.
const retryableConnErrorCode pq.ErrorCode = "53300"

// Catalog wraps a *sql.DB connected to a PostgreSQL database and exposes
// the introspection queries used to build an model.AnalysisRun.
type Catalog struct {
	db     *sql.DB
	config model.PostgresConfig
}

// Connect opens a connection to PostgreSQL using the given configuration
// and verifies it with a ping.
func Connect(ctx context.Context, cfg model.PostgresConfig) (*Catalog, error) {
	dsn := buildDSN(cfg)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &ConnectError{Host: cfg.Host, Port: cfg.Port, Err: err}
	}

	if err := pingWithRetry(ctx, db); err != nil {
		db.Close()
		return nil, &ConnectError{Host: cfg.Host, Port: cfg.Port, Err: err}
	}

	return &Catalog{db: db, config: cfg}, nil
}

// Close releases the underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// DB returns the underlying connection, letting callers (e.g. the
// validator) reuse it instead of opening a second connection to the same
// database.
func (c *Catalog) DB() *sql.DB {
	return c.db
}

func buildDSN(cfg model.PostgresConfig) string {
	sslMode := model.SSLPrefer
	var sslCA string
	if cfg.SSL != nil {
		sslMode = cfg.SSL.Mode
		sslCA = cfg.SSL.CA
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s connect_timeout=10",
		pq.QuoteLiteral(cfg.Host), cfg.Port, pq.QuoteLiteral(cfg.Database),
		pq.QuoteLiteral(cfg.Username), pq.QuoteLiteral(cfg.Password), sslMode,
	)
	if sslCA != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", pq.QuoteLiteral(sslCA))
	}
	return dsn
}

func pingWithRetry(ctx context.Context, db *sql.DB) error {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}

		pqErr := &pq.Error{}
		if errors.As(err, &pqErr) && pqErr.Code == retryableConnErrorCode {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.Duration()):
				continue
			}
		}

		return err
	}
}

// query runs a parameterized query and scans each row into a fresh T via
// scan, returning the collected slice.
func query[T any](ctx context.Context, db *sql.DB, sqlText string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, &CatalogQueryError{Query: sqlText, Err: err}
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, &CatalogQueryError{Query: sqlText, Err: err}
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &CatalogQueryError{Query: sqlText, Err: err}
	}
	return out, nil
}

// SPDX-License-Identifier: Apache-2.0

// Package extract streams a PostgreSQL table's rows to gzip-compressed CSV
// or Parquet chunk files using a server-side cursor, so a table larger than
// memory never has to be materialized all at once.
package extract

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

// Extractor streams rows out of a single PostgreSQL database.
type Extractor struct {
	db *sql.DB
}

// Connect opens a connection to PostgreSQL dedicated to data extraction.
// Extraction connections are not retried the way catalog connections are:
// a worker that can't connect should fail its table immediately rather than
// hold up the pool.
func Connect(ctx context.Context, cfg model.PostgresConfig) (*Extractor, error) {
	dsn := buildDSN(cfg)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Extractor{db: db}, nil
}

// Close releases the underlying connection.
func (e *Extractor) Close() error {
	return e.db.Close()
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

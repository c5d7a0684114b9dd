// SPDX-License-Identifier: Apache-2.0

// Package load uploads extracted chunk files to a Snowflake stage and loads
// them into tables via COPY INTO, retrying transient failures through
// internal/retry and tracking which staged files have already been loaded
// so the same Loader never COPYs a staged file twice.
package load

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/internal/retry"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

// Loader loads extracted files into Snowflake tables and executes DDL
// scripts against the target account.
type Loader struct {
	db     *sql.DB
	config model.SnowflakeConfig

	mu          sync.Mutex
	loadedFiles map[string]bool
}

// Connect opens a connection to Snowflake authenticated with the given
// OAuth access token.
func Connect(ctx context.Context, cfg model.SnowflakeConfig, auth model.OAuthConfig) (*Loader, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:       cfg.Account,
		Database:      cfg.Database,
		Schema:        cfg.Schema,
		Warehouse:     cfg.Warehouse,
		Role:          cfg.DefaultRole,
		Authenticator: gosnowflake.AuthTypeOAuth,
		Token:         auth.AccessToken,
	})
	if err != nil {
		return nil, &ConnectError{Account: cfg.Account, Err: err}
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, &ConnectError{Account: cfg.Account, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectError{Account: cfg.Account, Err: err}
	}

	return &Loader{db: db, config: cfg, loadedFiles: make(map[string]bool)}, nil
}

// Close releases the underlying connection.
func (l *Loader) Close() error {
	return l.db.Close()
}

// DB returns the underlying connection, letting callers (e.g. the
// validator) reuse it instead of opening a second connection to the same
// Snowflake account.
func (l *Loader) DB() *sql.DB {
	return l.db
}

// ExecuteDDL runs a single DDL statement.
func (l *Loader) ExecuteDDL(ctx context.Context, ddl string) error {
	_, err := l.db.ExecContext(ctx, ddl)
	return err
}

// ExecuteDDLScript splits a multi-statement DDL script on ";" and executes
// each non-empty statement in order, stopping at the first failure.
func (l *Loader) ExecuteDDLScript(ctx context.Context, script string) error {
	for _, stmt := range splitStatements(script) {
		if err := l.ExecuteDDL(ctx, stmt); err != nil {
			return fmt.Errorf("executing statement %q: %w", truncate(stmt, 100), err)
		}
	}
	return nil
}

func splitStatements(script string) []string {
	raw := strings.Split(script, ";")
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// isTransientSnowflakeError retries on any error, matching the original
// tenacity.retry decorator which carries no retry_if predicate of its own.
func isTransientSnowflakeError(err error) bool {
	return err != nil
}

// UploadFileToStage PUTs a local file to the configured stage, retrying
// transient failures, and returns the staged file's basename.
func (l *Loader) UploadFileToStage(ctx context.Context, filePath string) (string, error) {
	fileName := filepath.Base(filePath)

	err := retry.Do(ctx, isTransientSnowflakeError, func(ctx context.Context) error {
		putCmd := fmt.Sprintf("PUT file://%s @%s AUTO_COMPRESS=FALSE OVERWRITE=FALSE", filePath, l.config.Stage)
		_, err := l.db.ExecContext(ctx, putCmd)
		return err
	})
	if err != nil {
		return "", &StageUploadError{File: fileName, Err: err}
	}

	return fileName, nil
}

// CopyIntoTable executes a COPY INTO statement loading a single staged file
// into schema.table, retrying transient failures.
func (l *Loader) CopyIntoTable(ctx context.Context, schema, table, filePattern string, columns []string) model.LoadResult {
	fullTable := fmt.Sprintf("%s.%s", schema, table)

	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	columnList := strings.Join(quotedCols, ", ")

	copyCmd := fmt.Sprintf(`
		COPY INTO %s (%s)
		FROM @%s
		FILES = ('%s')
		FILE_FORMAT = %s
		MATCH_BY_COLUMN_NAME = CASE_INSENSITIVE
		ON_ERROR = 'ABORT_STATEMENT'
		PURGE = FALSE
	`, fullTable, columnList, l.config.Stage, filePattern, l.config.FileFormat)

	start := time.Now()
	var rowsLoaded int64

	err := retry.Do(ctx, isTransientSnowflakeError, func(ctx context.Context) error {
		rows, err := l.db.QueryContext(ctx, copyCmd)
		if err != nil {
			return err
		}
		defer rows.Close()

		rowsLoaded = 0
		cols, err := rows.Columns()
		if err != nil {
			return err
		}

		for rows.Next() {
			dest := make([]any, len(cols))
			for i := range dest {
				dest[i] = new(any)
			}
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			// COPY INTO's result set is (file, status, rows_parsed,
			// rows_loaded, ...); status index 1, rows_loaded index 3.
			if len(dest) > 3 {
				if status, ok := (*dest[1].(*any)).(string); ok && status == "LOADED" {
					if n, ok := toInt64((*dest[3].(*any))); ok {
						rowsLoaded += n
					}
				}
			}
		}
		return rows.Err()
	})

	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		return model.LoadResult{
			Table:  fullTable,
			File:   filePattern,
			Status: "failed",
			Error:  err.Error(),
		}
	}

	return model.LoadResult{
		Table:      fullTable,
		File:       filePattern,
		RowsLoaded: rowsLoaded,
		DurationMS: durationMS,
		Status:     "success",
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case []byte:
		var out int64
		_, err := fmt.Sscanf(string(n), "%d", &out)
		return out, err == nil
	default:
		return 0, false
	}
}

// LoadTable uploads every file for a table and COPY INTOs each one that
// hasn't already been loaded in this run, skipping files recorded in
// loadedFiles for idempotency.
func (l *Loader) LoadTable(ctx context.Context, schema, table string, filePaths []string, columns []string) []model.LoadResult {
	var results []model.LoadResult
	var uploaded []string

	for _, path := range filePaths {
		staged, err := l.UploadFileToStage(ctx, path)
		if err != nil {
			results = append(results, model.LoadResult{
				Table:  fmt.Sprintf("%s.%s", schema, table),
				File:   filepath.Base(path),
				Status: "upload_failed",
				Error:  err.Error(),
			})
			continue
		}
		uploaded = append(uploaded, staged)
	}

	for _, staged := range uploaded {
		l.mu.Lock()
		alreadyLoaded := l.loadedFiles[staged]
		l.mu.Unlock()
		if alreadyLoaded {
			continue
		}

		result := l.CopyIntoTable(ctx, schema, table, staged, columns)
		results = append(results, result)

		if result.Status == "success" {
			l.mu.Lock()
			l.loadedFiles[staged] = true
			l.mu.Unlock()
		}
	}

	return results
}

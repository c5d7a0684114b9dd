// SPDX-License-Identifier: Apache-2.0

package extract_test

import (
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/extract"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

const defaultPostgresVersion = "15.3"

var tConnStr string

func TestMain(m *testing.M) {
	ctx := context.Background()

	waitForLogs := wait.
		ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(5 * time.Second)

	pgVersion := os.Getenv("POSTGRES_VERSION")
	if pgVersion == "" {
		pgVersion = defaultPostgresVersion
	}

	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:"+pgVersion),
		testcontainers.WithWaitStrategy(waitForLogs),
	)
	if err != nil {
		os.Exit(1)
	}

	tConnStr, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		os.Exit(1)
	}

	code := m.Run()

	_ = ctr.Terminate(ctx)
	os.Exit(code)
}

func setupFixtureDB(t *testing.T) (model.PostgresConfig, string) {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("postgres", tConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema := "test_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", pq.QuoteIdentifier(schema)))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))
	})

	_, err = db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE %s.items (id int, name text, payload jsonb)", pq.QuoteIdentifier(schema)))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = db.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s.items (id, name, payload) VALUES ($1, $2, $3)`, pq.QuoteIdentifier(schema)),
			i, fmt.Sprintf("row %d", i), fmt.Sprintf(`{"n": %d}`, i))
		require.NoError(t, err)
	}

	u, err := url.Parse(tConnStr)
	require.NoError(t, err)
	port, _ := strconv.Atoi(u.Port())
	password, _ := u.User.Password()

	return model.PostgresConfig{
		Host:     u.Hostname(),
		Port:     port,
		Database: strings.TrimPrefix(u.Path, "/"),
		Username: u.User.Username(),
		Password: password,
	}, schema
}

func TestExtractTableCSV(t *testing.T) {
	cfg, schema := setupFixtureDB(t)

	e, err := extract.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer e.Close()

	destDir := t.TempDir()
	files, err := e.ExtractTable(context.Background(), schema, "items", []string{"id", "name", "payload"}, model.DefaultPreferences(), destDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Contains(t, files[0], fmt.Sprintf("%s_items_chunk_0001.csv.gz", schema))

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	content, err := io.ReadAll(gz)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 6) // header + 5 rows
	require.Equal(t, "id,name,payload", lines[0])
}

func TestExtractTableParquet(t *testing.T) {
	cfg, schema := setupFixtureDB(t)

	prefs := model.DefaultPreferences()
	prefs.Format = model.FormatParquet

	e, err := extract.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer e.Close()

	destDir := t.TempDir()
	files, err := e.ExtractTable(context.Background(), schema, "items", []string{"id", "name", "payload"}, prefs, destDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Contains(t, files[0], fmt.Sprintf("%s_items_chunk_0001.parquet", schema))

	info, err := os.Stat(files[0])
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

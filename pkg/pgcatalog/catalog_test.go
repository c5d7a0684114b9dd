// SPDX-License-Identifier: Apache-2.0

package pgcatalog_test

import (
	"context"
	"database/sql"
	"fmt"
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

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/pgcatalog"
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

// setupFixtureDB connects to the shared container, applies the given DDL
// statements against a schema named after the test, and returns the
// model.PostgresConfig a Catalog should connect with.
func setupFixtureDB(t *testing.T, ddl ...string) model.PostgresConfig {
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

	_, err = db.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(schema)))
	require.NoError(t, err)
	for _, stmt := range ddl {
		_, err = db.ExecContext(ctx, stmt)
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
		Schemas:  []string{schema},
	}
}

func TestConnect(t *testing.T) {
	cfg := setupFixtureDB(t, "CREATE TABLE t (id int)")

	cat, err := pgcatalog.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer cat.Close()
}

func TestConnectFailure(t *testing.T) {
	cfg := model.PostgresConfig{Host: "127.0.0.1", Port: 1, Database: "nope", Username: "nope", Password: "nope"}

	_, err := pgcatalog.Connect(context.Background(), cfg)
	require.Error(t, err)

	var connErr *pgcatalog.ConnectError
	require.ErrorAs(t, err, &connErr)
}

func TestAnalyzeComplete(t *testing.T) {
	cfg := setupFixtureDB(t,
		`CREATE TABLE users (
			id bigserial PRIMARY KEY,
			email varchar(255) NOT NULL UNIQUE,
			profile jsonb,
			created_at timestamp without time zone DEFAULT now()
		)`,
		`CREATE TABLE orders (
			id bigserial PRIMARY KEY,
			user_id bigint REFERENCES users(id),
			amount numeric(10,2) CHECK (amount >= 0)
		)`,
		`CREATE INDEX idx_orders_user_id ON orders (user_id)`,
		`CREATE VIEW user_order_counts AS SELECT user_id, count(*) FROM orders GROUP BY user_id`,
	)

	cat, err := pgcatalog.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer cat.Close()

	run, err := cat.AnalyzeComplete(context.Background())
	require.NoError(t, err)

	require.Len(t, run.Schemas, 1)
	schema := run.Schemas[0]
	require.Equal(t, cfg.Schemas[0], schema.SchemaName)
	require.Len(t, schema.Tables, 2)
	require.Len(t, schema.Views, 1)

	var users model.Table
	for _, tbl := range schema.Tables {
		if tbl.TableName == "users" {
			users = tbl
		}
	}
	require.Equal(t, "users", users.TableName)
	require.Len(t, users.Columns, 4)
	require.NotEmpty(t, users.Constraints.PrimaryKeys)
	require.NotEmpty(t, users.Constraints.UniqueKeys)

	var orders model.Table
	for _, tbl := range schema.Tables {
		if tbl.TableName == "orders" {
			orders = tbl
		}
	}
	require.NotEmpty(t, orders.Constraints.ForeignKeys)
	require.NotEmpty(t, orders.Constraints.CheckConstraints)
	require.NotEmpty(t, orders.Indexes)

	require.Equal(t, 2, run.Volumetrics.TotalTables)
	require.NotEmpty(t, schema.SpecialTypes.Details)
}

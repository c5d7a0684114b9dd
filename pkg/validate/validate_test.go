// SPDX-License-Identifier: Apache-2.0

package validate_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/validate"
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

// Validation's row-count and NOT NULL checks are plain ANSI SQL, so a
// single Postgres container can stand in for both ends of the comparison.
func openTwo(t *testing.T) (*sql.DB, *sql.DB) {
	t.Helper()
	db1, err := sql.Open("postgres", tConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { db1.Close() })

	db2, err := sql.Open("postgres", tConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { db2.Close() })

	return db1, db2
}

func TestValidateRowCountsMatch(t *testing.T) {
	pg, sf := openTwo(t)
	ctx := context.Background()

	schema := "rowcount_match"
	_, err := pg.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q.items (id int)`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %q.items VALUES (1), (2), (3)`, schema))
	require.NoError(t, err)

	v := validate.New(pg, sf)
	result := v.ValidateRowCounts(ctx, schema, "items")

	require.Equal(t, "PASS", result.Status)
	require.NotNil(t, result.Matches)
	require.True(t, *result.Matches)
	require.Equal(t, int64(3), *result.PostgresValue)
}

func TestCheckNullConstraintsViolation(t *testing.T) {
	pg, sf := openTwo(t)
	ctx := context.Background()

	schema := "null_violation"
	_, err := pg.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q.items (id int, name text)`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %q.items VALUES (1, 'a'), (2, NULL)`, schema))
	require.NoError(t, err)

	v := validate.New(pg, sf)
	result := v.CheckNullConstraints(ctx, schema, "items", []string{"name"})

	require.Equal(t, "FAIL", result.Status)
	require.Len(t, result.Violations, 1)
	require.Equal(t, int64(1), result.Violations[0].NullCount)
}

func TestCheckPrimaryKeyDuplicatesSkipsWithoutPK(t *testing.T) {
	pg, sf := openTwo(t)
	v := validate.New(pg, sf)

	result := v.CheckPrimaryKeyDuplicates(context.Background(), "any", "any", nil)
	require.Equal(t, "SKIP", result.Status)
}

func TestCheckPrimaryKeyDuplicatesFound(t *testing.T) {
	pg, sf := openTwo(t)
	ctx := context.Background()

	schema := "pk_dup"
	_, err := pg.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q.items (id int)`, schema))
	require.NoError(t, err)
	_, err = pg.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %q.items VALUES (1), (1), (2)`, schema))
	require.NoError(t, err)

	v := validate.New(pg, sf)
	result := v.CheckPrimaryKeyDuplicates(ctx, schema, "items", []string{"id"})

	require.Equal(t, "FAIL", result.Status)
	require.Equal(t, 1, result.DuplicateCount)
}

func TestCheckJSONValiditySkipsWithoutJSONColumns(t *testing.T) {
	pg, sf := openTwo(t)
	v := validate.New(pg, sf)

	result := v.CheckJSONValidity(context.Background(), "any", "any", nil)
	require.Equal(t, "SKIP", result.Status)
}

func TestGenerateValidationSQL(t *testing.T) {
	run := model.AnalysisRun{
		Schemas: []model.Schema{
			{
				SchemaName: "public",
				Tables: []model.Table{
					{
						TableName: "orders",
						Columns: []model.Column{
							{ColumnName: "id", DataType: "integer", IsNullable: false},
							{ColumnName: "payload", DataType: "jsonb", IsNullable: true},
						},
						Constraints: model.Constraints{
							PrimaryKeys: []model.KeyConstraint{{Columns: []string{"id"}}},
						},
					},
				},
			},
		},
	}

	sql := validate.GenerateValidationSQL(run)

	require.Contains(t, sql, `FROM "public"."orders";`)
	require.Contains(t, sql, `WHERE "id" IS NULL;`)
	require.Contains(t, sql, `GROUP BY "id"`)
	require.Contains(t, sql, `TRY_PARSE_JSON("payload")`)
}

func TestSummarizeResults(t *testing.T) {
	results := []model.ValidationResult{
		{Schema: "public", Table: "orders", Check: "row_count", Status: "PASS", Message: "ok"},
		{Schema: "public", Table: "orders", Check: "json_validity", Status: "FAIL", Message: "bad"},
	}

	out := validate.SummarizeResults(results)

	require.Contains(t, out, "**Total Checks:** 2")
	require.Contains(t, out, "**Passed:** ✅ 1")
	require.Contains(t, out, "**Failed:** ❌ 1")
}

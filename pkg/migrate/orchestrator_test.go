// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

func testRequest() model.Request {
	return model.Request{
		Postgres:    model.PostgresConfig{Host: "localhost", Port: 5432, Database: "src"},
		Snowflake:   model.SnowflakeConfig{Account: "acme", Stage: "my_stage", FileFormat: "my_csv_format"},
		Preferences: model.DefaultPreferences(),
	}
}

func TestNewAssignsRunIDAndClampsParallelism(t *testing.T) {
	dir := t.TempDir()
	req := testRequest()
	req.Preferences.Parallelism = 0

	o, err := New(req, filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	assert.NotEmpty(t, o.RunID())
	assert.Equal(t, defaultParallelism, o.request.Preferences.Parallelism)
	assert.DirExists(t, o.ArtifactsDir())
}

func TestNewClampsExcessiveParallelism(t *testing.T) {
	dir := t.TempDir()
	req := testRequest()
	req.Preferences.Parallelism = 9999

	o, err := New(req, filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	assert.Equal(t, maxParallelism, o.request.Preferences.Parallelism)
}

func TestProgressPercentFormula(t *testing.T) {
	dir := t.TempDir()
	o, err := New(testRequest(), filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	o.analysisResults = &model.AnalysisRun{
		Schemas: []model.Schema{{Tables: []model.Table{{TableName: "a"}, {TableName: "b"}}}},
	}

	o.status = model.PhaseAnalyzing
	assert.Equal(t, float64(progressAnalyzing), o.Progress().ProgressPercent)

	o.status = model.PhaseExecuting
	o.migrationResults = []model.MigrationResult{{Status: "completed"}}
	p := o.Progress()
	assert.InDelta(t, 30+0.5*60, p.ProgressPercent, 0.001)
	assert.Equal(t, 1, p.TablesCompleted)
	assert.Equal(t, 2, p.TablesTotal)

	o.status = model.PhaseCompleted
	assert.Equal(t, float64(progressCompleted), o.Progress().ProgressPercent)
}

func TestCancelMarksPhaseCancelled(t *testing.T) {
	dir := t.TempDir()
	o, err := New(testRequest(), filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	o.Cancel()
	assert.Equal(t, model.PhaseCancelled, o.getStatus())
	assert.Error(t, o.checkCancelled("execute"))
}

func TestGenerateLoadPlan(t *testing.T) {
	dir := t.TempDir()
	o, err := New(testRequest(), filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	run := model.AnalysisRun{
		Schemas: []model.Schema{
			{
				SchemaName: "public",
				Tables: []model.Table{
					{
						TableName:     "orders",
						Columns:       []model.Column{{ColumnName: "id"}, {ColumnName: "total"}},
						TableMetadata: model.TableMetadata{TotalSizeBytes: 2_000_000_000, ApproximateRowCount: 1000},
					},
				},
			},
		},
	}

	out, err := o.generateLoadPlan(run)
	require.NoError(t, err)
	assert.Contains(t, out, "table_name: orders")
	assert.Contains(t, out, "priority: high")
	assert.Contains(t, out, "parallelism:")
}

func TestGenerateCopyCommands(t *testing.T) {
	dir := t.TempDir()
	o, err := New(testRequest(), filepath.Join(dir, "artifacts"), filepath.Join(dir, "temp"))
	require.NoError(t, err)

	run := model.AnalysisRun{
		Schemas: []model.Schema{
			{
				SchemaName: "public",
				Tables: []model.Table{
					{TableName: "orders", Columns: []model.Column{{ColumnName: "id"}}},
				},
			},
		},
	}

	out := o.generateCopyCommands(run)
	assert.Contains(t, out, `COPY INTO "public"."orders"`)
	assert.Contains(t, out, "FROM @my_stage")
	assert.Contains(t, out, "FILE_FORMAT = my_csv_format")
}

func TestRenderSummaryMarkdown(t *testing.T) {
	run := model.AnalysisRun{
		Metadata: model.AnalysisMetadata{Database: "src"},
		Schemas:  []model.Schema{{Tables: []model.Table{{TableName: "orders"}}}},
	}
	migrationResults := []model.MigrationResult{
		{Schema: "public", Table: "orders", Status: "completed", RowsLoaded: 42},
	}
	validationResults := []model.ValidationResult{
		{Schema: "public", Table: "orders", Check: "row_count", Status: "PASS", Message: "ok"},
	}

	out := renderSummaryMarkdown("run-1", run, migrationResults, validationResults)

	assert.Contains(t, out, "**Run ID:** `run-1`")
	assert.Contains(t, out, "**Total Rows Migrated:** 42")
	assert.Contains(t, out, "| public | orders | ✅ completed | 42 | 0.00s | 0 |")
	assert.Contains(t, out, "## Validation Results")
}

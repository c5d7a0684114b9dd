// SPDX-License-Identifier: Apache-2.0

// Package migrate coordinates the analyze/plan/execute/validate/finalize
// phases of a single PostgreSQL-to-Snowflake migration run: it owns the
// run's workspace directory, its phase state machine, its progress
// snapshot, and the set of artifacts the run produces.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/ddlgen"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/extract"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/load"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/logging"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/pgcatalog"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/validate"
)

const (
	minParallelism     = 1
	maxParallelism     = 16
	defaultParallelism = 4

	progressAnalyzing            = 10
	progressPlanning             = 20
	progressAwaitingConfirmation = 25
	progressExecuteBase          = 30
	progressExecuteSpan          = 60
	progressValidating           = 90
	progressCompleted            = 100
)

// Outcome is the result returned by RunComplete, mirroring the original
// orchestrator's run_complete() response dict.
type Outcome struct {
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	ArtifactsDir string `json:"artifacts_dir"`
}

// Orchestrator drives one migration run through its phases and owns the
// run's workspace directory and artifact set.
type Orchestrator struct {
	request      model.Request
	runID        string
	artifactsDir string
	tempDir      string
	logger       *logging.Logger

	mu                sync.Mutex
	status            model.Phase
	analysisResults   *model.AnalysisRun
	migrationResults  []model.MigrationResult
	validationResults []model.ValidationResult
	cancelled         bool
}

// New creates an Orchestrator for request, allocating a run ID if one was
// not supplied, and creating its artifacts/temp directories under the
// given base directories.
func New(request model.Request, baseArtifactsDir, baseTempDir string) (*Orchestrator, error) {
	runID := request.Control.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if request.Preferences.Parallelism <= 0 {
		request.Preferences.Parallelism = defaultParallelism
	}
	if request.Preferences.Parallelism < minParallelism {
		request.Preferences.Parallelism = minParallelism
	}
	if request.Preferences.Parallelism > maxParallelism {
		request.Preferences.Parallelism = maxParallelism
	}

	artifactsDir := filepath.Join(baseArtifactsDir, runID)
	tempDir := filepath.Join(baseTempDir, runID)

	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	return &Orchestrator{
		request:      request,
		runID:        runID,
		artifactsDir: artifactsDir,
		tempDir:      tempDir,
		logger:       logging.New(runID),
		status:       model.PhasePending,
	}, nil
}

// RunID returns the run's identifier.
func (o *Orchestrator) RunID() string { return o.runID }

// ArtifactsDir returns the directory this run's artifacts are written to.
func (o *Orchestrator) ArtifactsDir() string { return o.artifactsDir }

func (o *Orchestrator) setStatus(phase model.Phase) {
	o.mu.Lock()
	o.status = phase
	o.mu.Unlock()
	o.writeProgressSnapshot()
}

// writeProgressSnapshot persists the current Progress() to progress.json
// so a separate `status` CLI invocation can read it back. Best-effort: a
// write failure here must never fail the migration itself.
func (o *Orchestrator) writeProgressSnapshot() {
	b, err := json.MarshalIndent(o.Progress(), "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(o.artifactsDir, "progress.json"), b, 0o644)
}

func (o *Orchestrator) getStatus() model.Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Cancel marks the run as cancelled. The next phase boundary the run
// reaches returns a CancelledError instead of proceeding; a phase already
// in flight is not interrupted mid-statement.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	o.cancelled = true
	o.status = model.PhaseCancelled
	o.mu.Unlock()
	o.writeProgressSnapshot()
}

// cancelSentinelPath is the file a separate `cancel` CLI invocation drops
// to signal a still-running `start` process, since a one-shot CLI has no
// in-process registry another invocation could reach.
func (o *Orchestrator) cancelSentinelPath() string {
	return filepath.Join(o.tempDir, "CANCELLED")
}

func (o *Orchestrator) checkCancelled(phase string) error {
	if _, err := os.Stat(o.cancelSentinelPath()); err == nil {
		o.Cancel()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelled {
		return &CancelledError{RunID: o.runID, Phase: phase}
	}
	return nil
}

// Progress returns a point-in-time snapshot of the run, with the exact
// percent formula the original orchestrator used per phase.
func (o *Orchestrator) Progress() model.Progress {
	o.mu.Lock()
	defer o.mu.Unlock()

	var totalTables int
	if o.analysisResults != nil {
		for _, schema := range o.analysisResults.Schemas {
			totalTables += len(schema.Tables)
		}
	}

	completedTables := 0
	for _, r := range o.migrationResults {
		if r.Status == "completed" {
			completedTables++
		}
	}

	var percent float64
	switch o.status {
	case model.PhaseAnalyzing:
		percent = progressAnalyzing
	case model.PhasePlanning:
		percent = progressPlanning
	case model.PhaseAwaitingConfirmation:
		percent = progressAwaitingConfirmation
	case model.PhaseExecuting:
		percent = progressExecuteBase
		if totalTables > 0 {
			percent += (float64(completedTables) / float64(totalTables)) * progressExecuteSpan
		}
	case model.PhaseValidating:
		percent = progressValidating
	case model.PhaseCompleted:
		percent = progressCompleted
	}

	tableStatuses := make([]model.TableStatus, 0, len(o.migrationResults))
	var errs []string
	for _, r := range o.migrationResults {
		tableStatuses = append(tableStatuses, model.TableStatus{
			TableName:  r.Table,
			SchemaName: r.Schema,
			Status:     r.Status,
			RowsLoaded: r.RowsLoaded,
			DurationMS: r.DurationMS,
			Error:      r.Error,
		})
		if r.Error != "" {
			errs = append(errs, fmt.Sprintf("%s.%s: %s", r.Schema, r.Table, r.Error))
		}
	}

	return model.Progress{
		RunID:           o.runID,
		Status:          o.status,
		Phase:           string(o.status),
		ProgressPercent: percent,
		TablesCompleted: completedTables,
		TablesTotal:     totalTables,
		TableStatuses:   tableStatuses,
		Errors:          errs,
	}
}

func (o *Orchestrator) writeArtifact(name, content string) error {
	return os.WriteFile(filepath.Join(o.artifactsDir, name), []byte(content), 0o644)
}

// Analyze runs phase 1: introspect the source PostgreSQL database and
// persist analysis_report.json.
func (o *Orchestrator) Analyze(ctx context.Context) (model.AnalysisRun, error) {
	o.logger.Info("analyze", "Starting PostgreSQL analysis", nil)
	o.setStatus(model.PhaseAnalyzing)

	catalog, err := pgcatalog.Connect(ctx, o.request.Postgres)
	if err != nil {
		o.setStatus(model.PhaseFailed)
		o.logger.Error("analyze", fmt.Sprintf("Analysis failed: %s", err), nil)
		return model.AnalysisRun{}, err
	}
	defer catalog.Close()

	run, err := catalog.AnalyzeComplete(ctx)
	if err != nil {
		o.setStatus(model.PhaseFailed)
		o.logger.Error("analyze", fmt.Sprintf("Analysis failed: %s", err), nil)
		return model.AnalysisRun{}, err
	}

	reportJSON, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return model.AnalysisRun{}, fmt.Errorf("marshaling analysis report: %w", err)
	}
	if err := o.writeArtifact("analysis_report.json", string(reportJSON)); err != nil {
		return model.AnalysisRun{}, fmt.Errorf("writing analysis_report.json: %w", err)
	}

	o.mu.Lock()
	o.analysisResults = &run
	o.mu.Unlock()

	totalTables := 0
	for _, s := range run.Schemas {
		totalTables += len(s.Tables)
	}
	o.logger.Info("analyze", "PostgreSQL analysis completed", map[string]any{
		"schemas":      len(run.Schemas),
		"total_tables": totalTables,
	})

	return run, nil
}

// Plan runs phase 2: generate every pre-execution artifact from the
// analysis results (DDL, mapping decisions, recommendations, load plan,
// validation SQL, sample COPY commands).
func (o *Orchestrator) Plan(ctx context.Context) ([]string, error) {
	o.logger.Info("plan", "Generating migration plan", nil)
	o.setStatus(model.PhasePlanning)

	o.mu.Lock()
	run := o.analysisResults
	o.mu.Unlock()
	if run == nil {
		err := &ConfigError{Reason: "analysis results not available, run Analyze first"}
		o.setStatus(model.PhaseFailed)
		return nil, err
	}

	emitter := ddlgen.New(o.request.Preferences)
	output := emitter.Emit(*run, o.request.Snowflake)
	if err := o.writeArtifact("snowflake_objects.sql", output.DDL); err != nil {
		return nil, err
	}

	mappingYAML, err := emitter.GenerateMappingDecisionsYAML(*run, output.MappingDecisions)
	if err != nil {
		return nil, fmt.Errorf("generating mapping_decisions.yml: %w", err)
	}
	if err := o.writeArtifact("mapping_decisions.yml", mappingYAML); err != nil {
		return nil, err
	}

	recommendations := emitter.GenerateImprovementRecommendations(*run, output.Recommendations)
	if err := o.writeArtifact("improvement_recommendations.md", recommendations); err != nil {
		return nil, err
	}

	loadPlanYAML, err := o.generateLoadPlan(*run)
	if err != nil {
		return nil, fmt.Errorf("generating load_plan.yml: %w", err)
	}
	if err := o.writeArtifact("load_plan.yml", loadPlanYAML); err != nil {
		return nil, err
	}

	validationSQL := validate.GenerateValidationSQL(*run)
	if err := o.writeArtifact("post_migration_checks.sql", validationSQL); err != nil {
		return nil, err
	}

	copyCommands := o.generateCopyCommands(*run)
	if err := o.writeArtifact("copy_commands.sql", copyCommands); err != nil {
		return nil, err
	}

	artifacts := []string{
		"analysis_report.json",
		"snowflake_objects.sql",
		"mapping_decisions.yml",
		"improvement_recommendations.md",
		"load_plan.yml",
		"post_migration_checks.sql",
		"copy_commands.sql",
	}

	o.logger.Info("plan", "Migration plan generated", map[string]any{"artifacts": artifacts})
	o.setStatus(model.PhaseAwaitingConfirmation)

	return artifacts, nil
}

type loadPlanMetadata struct {
	RunID       string `json:"run_id"`
	Generated   string `json:"generated"`
	Parallelism int    `json:"parallelism"`
	Format      string `json:"format"`
	MaxChunkMB  int    `json:"max_chunk_mb"`
}

type loadPlanTable struct {
	TableName       string   `json:"table_name"`
	EstimatedRows   int64    `json:"estimated_rows"`
	EstimatedSizeGB float64  `json:"estimated_size_gb"`
	Columns         []string `json:"columns"`
	ColumnCount     int      `json:"column_count"`
	ExtractStrategy string   `json:"extract_strategy"`
	LoadStrategy    string   `json:"load_strategy"`
	Priority        string   `json:"priority"`
}

type loadPlanSchema struct {
	SchemaName string          `json:"schema_name"`
	Tables     []loadPlanTable `json:"tables"`
}

type loadPlanDoc struct {
	Metadata loadPlanMetadata `json:"metadata"`
	Schemas  []loadPlanSchema `json:"schemas"`
}

const largeTableBytes = 1_000_000_000

func (o *Orchestrator) generateLoadPlan(run model.AnalysisRun) (string, error) {
	doc := loadPlanDoc{
		Metadata: loadPlanMetadata{
			RunID:       o.runID,
			Generated:   time.Now().UTC().Format(time.RFC3339),
			Parallelism: o.request.Preferences.Parallelism,
			Format:      string(o.request.Preferences.Format),
			MaxChunkMB:  o.request.Preferences.MaxChunkMB,
		},
	}

	for _, schema := range run.Schemas {
		schemaPlan := loadPlanSchema{SchemaName: schema.SchemaName}

		for _, table := range schema.Tables {
			columns := make([]string, len(table.Columns))
			for i, c := range table.Columns {
				columns[i] = c.ColumnName
			}

			priority := "normal"
			if table.TableMetadata.TotalSizeBytes > largeTableBytes {
				priority = "high"
			}

			schemaPlan.Tables = append(schemaPlan.Tables, loadPlanTable{
				TableName:       table.TableName,
				EstimatedRows:   table.TableMetadata.ApproximateRowCount,
				EstimatedSizeGB: roundTo(float64(table.TableMetadata.TotalSizeBytes)/(1024*1024*1024), 3),
				Columns:         columns,
				ColumnCount:     len(columns),
				ExtractStrategy: "streaming",
				LoadStrategy:    "bulk_copy",
				Priority:        priority,
			})
		}

		doc.Schemas = append(doc.Schemas, schemaPlan)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func roundTo(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int(v*mult+0.5)) / mult
}

// generateCopyCommands renders representative COPY INTO commands for the
// first schema's first three tables, matching the original's illustrative
// (not exhaustive) sample.
func (o *Orchestrator) generateCopyCommands(run model.AnalysisRun) string {
	lines := []string{
		"-- =============================================================================",
		"-- Sample COPY INTO Commands",
		fmt.Sprintf("-- Generated: %s", time.Now().UTC().Format(time.RFC3339)),
		"-- =============================================================================",
		"",
		"-- These are representative COPY INTO commands.",
		"-- The actual migration generates specific commands for each data file.",
		"",
	}

	if len(run.Schemas) > 0 {
		schema := run.Schemas[0]
		tables := schema.Tables
		if len(tables) > 3 {
			tables = tables[:3]
		}

		for _, table := range tables {
			columnList := ""
			for i, c := range table.Columns {
				if i > 0 {
					columnList += ", "
				}
				columnList += fmt.Sprintf("%q", c.ColumnName)
			}

			lines = append(lines,
				fmt.Sprintf("-- Table: %s.%s", schema.SchemaName, table.TableName),
				fmt.Sprintf("COPY INTO %q.%q (%s)", schema.SchemaName, table.TableName, columnList),
				fmt.Sprintf("FROM @%s", o.request.Snowflake.Stage),
				fmt.Sprintf("FILES = ('%s_%s_chunk_0001.csv.gz')", schema.SchemaName, table.TableName),
				fmt.Sprintf("FILE_FORMAT = %s", o.request.Snowflake.FileFormat),
				"MATCH_BY_COLUMN_NAME = CASE_INSENSITIVE",
				"ON_ERROR = 'ABORT_STATEMENT'",
				"PURGE = FALSE;",
				"",
			)
		}
	}

	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

// Execute runs phase 3: create Snowflake objects, then extract and load
// every table, gated on an explicit confirmation.
func (o *Orchestrator) Execute(ctx context.Context) ([]model.MigrationResult, error) {
	if !o.request.Control.Confirm {
		err := &ConfigError{Reason: "migration execution requires explicit confirmation (confirm=true)"}
		return nil, err
	}

	o.logger.Info("execute", "Starting migration execution", nil)
	o.setStatus(model.PhaseExecuting)

	o.mu.Lock()
	run := o.analysisResults
	o.mu.Unlock()
	if run == nil {
		err := &ConfigError{Reason: "analysis results not available, run Analyze first"}
		o.setStatus(model.PhaseFailed)
		return nil, err
	}

	loader, err := load.Connect(ctx, o.request.Snowflake, o.request.Auth)
	if err != nil {
		o.setStatus(model.PhaseFailed)
		o.logger.Error("ddl", fmt.Sprintf("DDL execution failed: %s", err), nil)
		return nil, err
	}
	defer loader.Close()

	ddlScript, err := os.ReadFile(filepath.Join(o.artifactsDir, "snowflake_objects.sql"))
	if err != nil {
		o.setStatus(model.PhaseFailed)
		return nil, fmt.Errorf("reading snowflake_objects.sql: %w", err)
	}
	o.logger.Info("ddl", "Executing Snowflake DDL", nil)
	if err := loader.ExecuteDDLScript(ctx, string(ddlScript)); err != nil {
		o.setStatus(model.PhaseFailed)
		o.logger.Error("ddl", fmt.Sprintf("DDL execution failed: %s", err), nil)
		return nil, err
	}
	o.logger.Info("ddl", "DDL execution completed", nil)

	extractor, err := extract.Connect(ctx, o.request.Postgres)
	if err != nil {
		o.setStatus(model.PhaseFailed)
		return nil, err
	}
	defer extractor.Close()

	var results []model.MigrationResult

	for _, schema := range run.Schemas {
		if err := o.checkCancelled("execute"); err != nil {
			return results, err
		}

		o.logger.Info("execute", fmt.Sprintf("Migrating schema: %s", schema.SchemaName), map[string]any{
			"table_count": len(schema.Tables),
		})

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.request.Preferences.Parallelism)

		for _, table := range schema.Tables {
			table := table
			g.Go(func() error {
				result := o.migrateTable(gctx, extractor, loader, schema.SchemaName, table)
				o.mu.Lock()
				results = append(results, result)
				o.migrationResults = append(o.migrationResults, result)
				o.mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			o.setStatus(model.PhaseFailed)
			return results, err
		}
	}

	successful := 0
	for _, r := range results {
		if r.Status == "completed" {
			successful++
		}
	}
	o.logger.Info("execute", "Migration execution completed", map[string]any{
		"total_tables": len(results),
		"successful":   successful,
	})

	return results, nil
}

func (o *Orchestrator) migrateTable(ctx context.Context, extractor *extract.Extractor, loader *load.Loader, schemaName string, table model.Table) model.MigrationResult {
	start := time.Now()

	columns := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = c.ColumnName
	}

	files, err := extractor.ExtractTable(ctx, schemaName, table.TableName, columns, o.request.Preferences, o.tempDir)
	if err != nil {
		return model.MigrationResult{
			Schema: schemaName, Table: table.TableName,
			Status: "failed", Error: err.Error(),
			DurationMS: time.Since(start).Milliseconds(),
		}
	}

	loadResults := loader.LoadTable(ctx, schemaName, table.TableName, files, columns)

	var rowsLoaded int64
	status := "completed"
	var errMsg string
	for _, lr := range loadResults {
		rowsLoaded += lr.RowsLoaded
		if lr.Status != "success" {
			status = "failed"
			errMsg = lr.Error
		}
	}

	return model.MigrationResult{
		Schema:      schemaName,
		Table:       table.TableName,
		Status:      status,
		RowsLoaded:  rowsLoaded,
		FileCount:   len(files),
		DurationMS:  time.Since(start).Milliseconds(),
		LoadResults: loadResults,
		Error:       errMsg,
	}
}

// Validate runs phase 4: cross-check every successfully migrated table
// between PostgreSQL and Snowflake. A validation failure never fails the
// overall run, matching the original orchestrator's best-effort validate().
func (o *Orchestrator) Validate(ctx context.Context) ([]model.ValidationResult, error) {
	o.logger.Info("validate", "Starting data validation", nil)
	o.setStatus(model.PhaseValidating)

	o.mu.Lock()
	run := o.analysisResults
	migrationResults := append([]model.MigrationResult(nil), o.migrationResults...)
	o.mu.Unlock()
	if run == nil {
		return nil, &ConfigError{Reason: "analysis results not available, run Analyze first"}
	}

	pgCatalog, err := pgcatalog.Connect(ctx, o.request.Postgres)
	if err != nil {
		o.logger.Error("validate", fmt.Sprintf("Validation failed: %s", err), nil)
		return o.validationResults, nil
	}
	defer pgCatalog.Close()

	sfLoader, err := load.Connect(ctx, o.request.Snowflake, o.request.Auth)
	if err != nil {
		o.logger.Error("validate", fmt.Sprintf("Validation failed: %s", err), nil)
		return o.validationResults, nil
	}
	defer sfLoader.Close()

	validator := validate.New(pgCatalog.DB(), sfLoader.DB())

	var results []model.ValidationResult
	for _, schema := range run.Schemas {
		for _, table := range schema.Tables {
			migrated := false
			for _, r := range migrationResults {
				if r.Schema == schema.SchemaName && r.Table == table.TableName && r.Status == "completed" {
					migrated = true
					break
				}
			}
			if !migrated {
				continue
			}
			results = append(results, validator.ValidateTable(ctx, schema.SchemaName, table)...)
		}
	}

	o.mu.Lock()
	o.validationResults = results
	o.mu.Unlock()

	passed := 0
	for _, r := range results {
		if r.Status == "PASS" {
			passed++
		}
	}
	o.logger.Info("validate", "Validation completed", map[string]any{
		"total_checks": len(results),
		"passed":       passed,
	})

	return results, nil
}

// Finalize runs phase 5: render summary.md, flush run_log.ndjson, and set
// the run's terminal status.
func (o *Orchestrator) Finalize(ctx context.Context) (string, error) {
	o.logger.Info("finalize", "Generating final report", nil)

	o.mu.Lock()
	run := o.analysisResults
	migrationResults := append([]model.MigrationResult(nil), o.migrationResults...)
	validationResults := append([]model.ValidationResult(nil), o.validationResults...)
	o.mu.Unlock()

	var analysisRun model.AnalysisRun
	if run != nil {
		analysisRun = *run
	}

	summary := renderSummaryMarkdown(o.runID, analysisRun, migrationResults, validationResults)
	summaryFile := filepath.Join(o.artifactsDir, "summary.md")
	if err := o.writeArtifact("summary.md", summary); err != nil {
		return "", fmt.Errorf("writing summary.md: %w", err)
	}

	ndjson, err := o.logger.RenderNDJSON()
	if err != nil {
		return "", fmt.Errorf("rendering run_log.ndjson: %w", err)
	}
	if err := o.writeArtifact("run_log.ndjson", ndjson); err != nil {
		return "", fmt.Errorf("writing run_log.ndjson: %w", err)
	}

	failedCount := 0
	for _, r := range migrationResults {
		if r.Status == "failed" {
			failedCount++
		}
	}
	if failedCount == 0 {
		o.setStatus(model.PhaseCompleted)
	} else {
		o.setStatus(model.PhaseFailed)
	}

	o.logger.Info("finalize", "Migration finalized", map[string]any{"status": string(o.getStatus())})

	return summaryFile, nil
}

// RunComplete drives the entire phase sequence: analyze, plan, and then
// either stop (dry run or awaiting confirmation) or execute, validate, and
// finalize.
func (o *Orchestrator) RunComplete(ctx context.Context) (Outcome, error) {
	if _, err := o.Analyze(ctx); err != nil {
		return Outcome{}, err
	}
	if err := o.checkCancelled("plan"); err != nil {
		return Outcome{}, err
	}

	if _, err := o.Plan(ctx); err != nil {
		return Outcome{}, err
	}
	if err := o.checkCancelled("execute"); err != nil {
		return Outcome{}, err
	}

	if o.request.Preferences.DryRun {
		o.logger.Info("migration", "Dry run completed - no execution", nil)
		o.setStatus(model.PhaseCompleted)
		if _, err := o.Finalize(ctx); err != nil {
			return Outcome{}, err
		}
		return Outcome{
			RunID:        o.runID,
			Status:       string(model.PhaseCompleted),
			Message:      "Dry run completed. Review artifacts and re-run with confirm=true to execute.",
			ArtifactsDir: o.artifactsDir,
		}, nil
	}

	if !o.request.Control.Confirm {
		o.logger.Info("migration", "Awaiting confirmation to execute", nil)
		return Outcome{
			RunID:        o.runID,
			Status:       string(model.PhaseAwaitingConfirmation),
			Message:      "Plan generated. Review artifacts and re-run with confirm=true to execute migration.",
			ArtifactsDir: o.artifactsDir,
		}, nil
	}

	if _, err := o.Execute(ctx); err != nil {
		return Outcome{}, err
	}
	if err := o.checkCancelled("validate"); err != nil {
		return Outcome{}, err
	}
	if _, err := o.Validate(ctx); err != nil {
		return Outcome{}, err
	}
	if _, err := o.Finalize(ctx); err != nil {
		return Outcome{}, err
	}

	status := o.getStatus()
	return Outcome{
		RunID:        o.runID,
		Status:       string(status),
		Message:      fmt.Sprintf("Migration completed with status: %s", status),
		ArtifactsDir: o.artifactsDir,
	}, nil
}

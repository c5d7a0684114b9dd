// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"fmt"
	"strings"
	"time"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/validate"
)

// renderSummaryMarkdown renders the run's summary.md: an overview, a
// per-table migration results table, the validation results table (via
// pkg/validate.SummarizeResults), and a fixed post-migration checklist.
func renderSummaryMarkdown(runID string, run model.AnalysisRun, migrationResults []model.MigrationResult, validationResults []model.ValidationResult) string {
	var b strings.Builder

	b.WriteString("# PostgreSQL to Snowflake Migration Summary\n\n")
	fmt.Fprintf(&b, "**Run ID:** `%s`\n\n", runID)
	fmt.Fprintf(&b, "**Timestamp:** %s\n\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "**Source Database:** %s\n\n", run.Metadata.Database)
	b.WriteString("---\n\n")

	totalTables := 0
	for _, s := range run.Schemas {
		totalTables += len(s.Tables)
	}
	completed, failed := 0, 0
	var totalRows int64
	for _, r := range migrationResults {
		if r.Status == "completed" {
			completed++
		}
		if r.Status == "failed" {
			failed++
		}
		totalRows += r.RowsLoaded
	}

	b.WriteString("## Migration Overview\n\n")
	fmt.Fprintf(&b, "- **Total Tables:** %d\n", totalTables)
	fmt.Fprintf(&b, "- **Successfully Migrated:** %d\n", completed)
	fmt.Fprintf(&b, "- **Failed:** %d\n", failed)
	fmt.Fprintf(&b, "- **Total Rows Migrated:** %d\n\n", totalRows)

	b.WriteString("## Table Migration Results\n\n")
	b.WriteString("| Schema | Table | Status | Rows Loaded | Duration | Files |\n")
	b.WriteString("|--------|-------|--------|-------------|----------|-------|\n")
	for _, r := range migrationResults {
		emoji := "❌"
		if r.Status == "completed" {
			emoji = "✅"
		}
		durationSec := float64(r.DurationMS) / 1000
		fmt.Fprintf(&b, "| %s | %s | %s %s | %d | %.2fs | %d |\n",
			r.Schema, r.Table, emoji, r.Status, r.RowsLoaded, durationSec, r.FileCount)
	}
	b.WriteString("\n")

	if len(validationResults) > 0 {
		b.WriteString(validate.SummarizeResults(validationResults))
		b.WriteString("\n")
	}

	b.WriteString("## Post-Migration Checklist\n\n")
	b.WriteString("### Immediate Actions:\n")
	b.WriteString("- [ ] Review validation results and investigate any failures\n")
	b.WriteString("- [ ] Test application connectivity to Snowflake\n")
	b.WriteString("- [ ] Verify user permissions and roles\n")
	b.WriteString("- [ ] Test critical queries and reports\n\n")
	b.WriteString("### Data Quality:\n")
	b.WriteString("- [ ] Run additional business-specific validation queries\n")
	b.WriteString("- [ ] Compare sample data between PostgreSQL and Snowflake\n")
	b.WriteString("- [ ] Verify foreign key relationships (documented but not enforced)\n\n")
	b.WriteString("### Performance:\n")
	b.WriteString("- [ ] Analyze query performance on large tables\n")
	b.WriteString("- [ ] Review and optimize cluster keys if needed\n")
	b.WriteString("- [ ] Set up warehouse auto-suspend and auto-resume\n")

	return b.String()
}

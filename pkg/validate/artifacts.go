// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"strings"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

// GenerateValidationSQL renders a standalone SQL script — one block of
// SELECTs per table covering row counts, NOT NULL violations, primary key
// duplicates, and JSON validity — that an operator can re-run against
// Snowflake directly, without this binary, at any point after a migration.
func GenerateValidationSQL(run model.AnalysisRun) string {
	var b strings.Builder

	b.WriteString("-- Post-migration validation queries\n")
	b.WriteString("-- Generated for re-run against the target Snowflake account\n\n")

	for _, schema := range run.Schemas {
		for _, table := range schema.Tables {
			fmt.Fprintf(&b, "-- Table: %s.%s\n\n", schema.SchemaName, table.TableName)

			fmt.Fprintf(&b, "-- Row count\n")
			fmt.Fprintf(&b, "SELECT '%s.%s' AS table_name, COUNT(*) AS row_count\n", schema.SchemaName, table.TableName)
			fmt.Fprintf(&b, "FROM %q.%q;\n\n", schema.SchemaName, table.TableName)

			var notNullCols, jsonCols []string
			for _, col := range table.Columns {
				if !col.IsNullable {
					notNullCols = append(notNullCols, col.ColumnName)
				}
				if col.DataType == "json" || col.DataType == "jsonb" {
					jsonCols = append(jsonCols, col.ColumnName)
				}
			}

			if len(notNullCols) > 0 {
				fmt.Fprintf(&b, "-- NOT NULL constraint violations\n")
				for _, col := range notNullCols {
					fmt.Fprintf(&b, "SELECT '%s.%s.%s' AS column_name, COUNT(*) AS null_count\n", schema.SchemaName, table.TableName, col)
					fmt.Fprintf(&b, "FROM %q.%q\n", schema.SchemaName, table.TableName)
					fmt.Fprintf(&b, "WHERE %q IS NULL;\n\n", col)
				}
			}

			if len(table.Constraints.PrimaryKeys) > 0 {
				pkCols := table.Constraints.PrimaryKeys[0].Columns
				pkList := quoteColumnList(pkCols)
				fmt.Fprintf(&b, "-- Primary key duplicate check\n")
				fmt.Fprintf(&b, "SELECT %s, COUNT(*) AS duplicate_count\n", pkList)
				fmt.Fprintf(&b, "FROM %q.%q\n", schema.SchemaName, table.TableName)
				fmt.Fprintf(&b, "GROUP BY %s\n", pkList)
				fmt.Fprintf(&b, "HAVING COUNT(*) > 1;\n\n")
			}

			if len(jsonCols) > 0 {
				fmt.Fprintf(&b, "-- JSON validity check\n")
				for _, col := range jsonCols {
					fmt.Fprintf(&b, "SELECT '%s.%s.%s' AS column_name, COUNT(*) AS invalid_count\n", schema.SchemaName, table.TableName, col)
					fmt.Fprintf(&b, "FROM %q.%q\n", schema.SchemaName, table.TableName)
					fmt.Fprintf(&b, "WHERE %q IS NOT NULL AND TRY_PARSE_JSON(%q) IS NULL;\n\n", col, col)
				}
			}

			b.WriteString("\n")
		}
	}

	return b.String()
}

// statusEmoji maps a check status to the glyph used in summary.md, matching
// the original report generator's emoji table.
var statusEmoji = map[string]string{
	statusPass:  "✅",
	statusFail:  "❌",
	statusSkip:  "⏭️",
	statusError: "⚠️",
}

// SummarizeResults renders the "## Validation Results" table plus the
// pass/fail/skip/error roll-up used in the run's final summary.md artifact.
func SummarizeResults(results []model.ValidationResult) string {
	var b strings.Builder

	if len(results) == 0 {
		return ""
	}

	b.WriteString("## Validation Results\n\n")
	b.WriteString("| Schema | Table | Check | Status | Message |\n")
	b.WriteString("|--------|-------|-------|--------|---------|\n")

	var passed, failed, skipped, errored int
	for _, r := range results {
		emoji := statusEmoji[r.Status]
		if emoji == "" {
			emoji = "❓"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s %s | %s |\n", r.Schema, r.Table, r.Check, emoji, r.Status, r.Message)

		switch r.Status {
		case statusPass:
			passed++
		case statusFail:
			failed++
		case statusSkip:
			skipped++
		case statusError:
			errored++
		}
	}

	b.WriteString("\n### Validation Summary:\n\n")
	fmt.Fprintf(&b, "- **Total Checks:** %d\n", len(results))
	fmt.Fprintf(&b, "- **Passed:** %s %d\n", statusEmoji[statusPass], passed)
	fmt.Fprintf(&b, "- **Failed:** %s %d\n", statusEmoji[statusFail], failed)
	fmt.Fprintf(&b, "- **Skipped:** %s %d\n", statusEmoji[statusSkip], skipped)
	fmt.Fprintf(&b, "- **Errors:** %s %d\n", statusEmoji[statusError], errored)

	return b.String()
}

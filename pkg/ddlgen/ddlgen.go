// SPDX-License-Identifier: Apache-2.0

// Package ddlgen builds Snowflake DDL from an analyzed PostgreSQL catalog.
// Emit is a pure function over its inputs: it returns the generated DDL
// text alongside the mapping decisions and recommendations it produced,
// and consults no state after returning.
package ddlgen

import (
	"fmt"
	"strings"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/pgcatalog"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/typemap"
)

const veryLargeTableBytes = 10 * 1024 * 1024 * 1024

// Emitter generates Snowflake DDL for a single analyzed run using the
// configured case style and cluster key hints.
type Emitter struct {
	prefs model.Preferences
}

// New returns an Emitter configured with the given migration preferences.
func New(prefs model.Preferences) *Emitter {
	return &Emitter{prefs: prefs}
}

// Output is everything Emit produces for one run: the complete DDL script,
// the ordered column mapping decisions, and any improvement recommendations
// surfaced while walking the catalog.
type Output struct {
	DDL             string
	MappingDecisions []model.MappingDecision
	Recommendations  []model.Recommendation
}

func (e *Emitter) normalizeIdentifier(name string) string {
	switch e.prefs.CaseStyle {
	case model.CaseUpper:
		return strings.ToUpper(name)
	case model.CaseLower:
		return strings.ToLower(name)
	default:
		return name
	}
}

func isAlnumUnderscore(s string) bool {
	for _, r := range s {
		if r == '_' {
			continue
		}
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func (e *Emitter) quoteIdentifier(name string) string {
	normalized := e.normalizeIdentifier(name)
	if pgcatalog.ReservedWords[strings.ToUpper(normalized)] || !isAlnumUnderscore(normalized) {
		return `"` + normalized + `"`
	}
	return normalized
}

// GenerateDatabaseDDL emits the CREATE DATABASE / USE DATABASE preamble.
func (e *Emitter) GenerateDatabaseDDL(databaseName string) []string {
	db := e.quoteIdentifier(databaseName)
	return []string{
		fmt.Sprintf("-- Database: %s", db),
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s;", db),
		fmt.Sprintf("USE DATABASE %s;", db),
		"",
	}
}

// GenerateSchemaDDL emits a CREATE SCHEMA statement.
func (e *Emitter) GenerateSchemaDDL(schemaName string) []string {
	schema := e.quoteIdentifier(schemaName)
	return []string{
		fmt.Sprintf("-- Schema: %s", schema),
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", schema),
		"",
	}
}

// GenerateSequenceDDL emits a CREATE SEQUENCE statement for a standalone
// PostgreSQL sequence.
func (e *Emitter) GenerateSequenceDDL(schemaName string, seq model.Sequence) string {
	schema := e.quoteIdentifier(schemaName)
	seqName := e.quoteIdentifier(seq.SequenceName)

	start := seq.StartValue
	if start == 0 {
		start = 1
	}
	increment := seq.Increment
	if increment == 0 {
		increment = 1
	}

	return fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s.%s START = %d INCREMENT = %d;", schema, seqName, start, increment)
}

// GenerateTableDDL emits the CREATE TABLE statement for one table and
// returns the per-column mapping decisions alongside any recommendation
// (e.g. a cluster-key suggestion for a very large table) it produced.
func (e *Emitter) GenerateTableDDL(schemaName string, table model.Table) (string, []model.MappingDecision, *model.Recommendation) {
	schema := e.quoteIdentifier(schemaName)
	tableIdent := e.quoteIdentifier(table.TableName)
	fullName := schema + "." + tableIdent

	var columnDefs []string
	var mappings []model.MappingDecision
	var lastColumnIdent string

	for _, col := range table.Columns {
		colIdent := e.quoteIdentifier(col.ColumnName)
		lastColumnIdent = colIdent

		mapping := typemap.MapType(col.DataType, col.UDTName, col.CharacterMaxLength, col.NumericPrecision, col.NumericScale)

		colDef := fmt.Sprintf("    %s %s", colIdent, mapping.SnowflakeType)

		switch {
		case col.IsIdentity && e.prefs.UseIdentityForSerial:
			start := int64(1)
			if col.IdentityStart != nil {
				start = *col.IdentityStart
			}
			increment := int64(1)
			if col.IdentityIncrement != nil {
				increment = *col.IdentityIncrement
			}
			colDef += fmt.Sprintf(" IDENTITY(%d, %d)", start, increment)
		case col.SerialSequence != "":
			seqName := lastSegment(col.SerialSequence)
			colDef += fmt.Sprintf(" DEFAULT %s.%s.NEXTVAL", schema, e.quoteIdentifier(seqName))
		case col.ColumnDefault != nil:
			def := *col.ColumnDefault
			if strings.HasPrefix(def, "nextval(") {
				if seqName, ok := extractQuotedSegment(def); ok {
					colDef += fmt.Sprintf(" DEFAULT %s.%s.NEXTVAL", schema, e.quoteIdentifier(lastSegment(seqName)))
				}
			} else {
				colDef += fmt.Sprintf(" DEFAULT %s", def)
			}
		}

		if !col.IsNullable {
			colDef += " NOT NULL"
		}

		if col.ColumnComment != "" {
			comment := strings.ReplaceAll(col.ColumnComment, "'", "''")
			colDef += fmt.Sprintf(" COMMENT '%s'", comment)
		}

		columnDefs = append(columnDefs, colDef)
		mappings = append(mappings, model.MappingDecision{
			Schema:        schemaName,
			Table:         table.TableName,
			Column:        col.ColumnName,
			PostgresType:  col.DataType,
			SnowflakeType: mapping.SnowflakeType,
			Rationale:     mapping.Rationale,
			Nullable:      col.IsNullable,
			HasDefault:    col.ColumnDefault != nil,
			IsIdentity:    col.IsIdentity,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", fullName)
	b.WriteString(strings.Join(columnDefs, ",\n"))

	if len(table.Constraints.PrimaryKeys) > 0 {
		pk := table.Constraints.PrimaryKeys[0]
		fmt.Fprintf(&b, ",\n    CONSTRAINT %s PRIMARY KEY (%s)", e.quoteIdentifier(pk.ConstraintName), e.quoteIdentColumns(pk.Columns))
	}
	for _, uk := range table.Constraints.UniqueKeys {
		fmt.Fprintf(&b, ",\n    CONSTRAINT %s UNIQUE (%s)", e.quoteIdentifier(uk.ConstraintName), e.quoteIdentColumns(uk.Columns))
	}
	b.WriteString("\n)")

	var recommendation *model.Recommendation
	if hint, ok := e.prefs.ClusterKeyHints[table.TableName]; ok && len(hint) > 0 {
		fmt.Fprintf(&b, "\nCLUSTER BY (%s)", e.quoteIdentColumns(hint))
	} else if table.TableMetadata.TotalSizeBytes > veryLargeTableBytes {
		gb := float64(table.TableMetadata.TotalSizeBytes) / (1024 * 1024 * 1024)
		recommendation = &model.Recommendation{
			Kind:  model.ClusterKeyRecommendation,
			Table: fullName,
			Recommendation: fmt.Sprintf(
				"Table %s is very large (%.2f GB). Consider adding a CLUSTER KEY on frequently filtered columns (e.g., date/timestamp columns) to improve query performance.",
				fullName, gb),
		}
	}

	b.WriteString(";")

	if table.TableMetadata.TableComment != "" {
		comment := strings.ReplaceAll(table.TableMetadata.TableComment, "'", "''")
		fmt.Fprintf(&b, "\nCOMMENT ON TABLE %s IS '%s';", fullName, comment)
	}

	if len(table.Constraints.ForeignKeys) > 0 {
		b.WriteString("\n\n-- Foreign key constraints (for documentation; not enforced on standard tables):")
		for _, fk := range table.Constraints.ForeignKeys {
			fkTable := e.quoteIdentifier(fk.ForeignTableSchema) + "." + e.quoteIdentifier(fk.ForeignTableName)
			fmt.Fprintf(&b, "\n-- %s: %s REFERENCES %s(%s)",
				e.quoteIdentifier(fk.ConstraintName), lastColumnIdent, fkTable, e.quoteIdentifier(fk.ForeignColumnName))
		}
	}

	return b.String(), mappings, recommendation
}

func (e *Emitter) quoteIdentColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = e.quoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

// GenerateViewDDL emits a commented-out view stub; PostgreSQL view syntax
// is not automatically portable to Snowflake, so the original query is
// preserved as a comment for manual review rather than translated.
//
// TODO: translate common PostgreSQL view syntax (CURRENT_DATE, ::cast,
// ILIKE) into Snowflake-compatible SQL instead of leaving a manual stub.
func (e *Emitter) GenerateViewDDL(schemaName string, view model.View) string {
	schema := e.quoteIdentifier(schemaName)
	viewName := e.quoteIdentifier(view.ViewName)

	var b strings.Builder
	fmt.Fprintf(&b, "-- View: %s.%s\n", schema, viewName)
	b.WriteString("-- Original PostgreSQL definition:\n")
	fmt.Fprintf(&b, "-- %s\n", view.ViewDefinition)
	b.WriteString("-- TODO: Review and transform PostgreSQL-specific syntax for Snowflake\n")
	fmt.Fprintf(&b, "-- CREATE OR REPLACE VIEW %s.%s AS\n", schema, viewName)
	b.WriteString("-- <transformed_query>;\n")
	return b.String()
}

// GenerateStageAndFormat emits the internal stage and file format used by
// the loader's PUT/COPY INTO commands.
func (e *Emitter) GenerateStageAndFormat(stageName, fileFormatName string) []string {
	stage := e.quoteIdentifier(stageName)
	fileFormat := e.quoteIdentifier(fileFormatName)

	lines := []string{
		"-- Internal stage for data loading",
		fmt.Sprintf("CREATE STAGE IF NOT EXISTS %s;", stage),
		"",
	}

	if e.prefs.Format == model.FormatParquet {
		return append(lines,
			"-- File format for Parquet",
			fmt.Sprintf("CREATE FILE FORMAT IF NOT EXISTS %s", fileFormat),
			"    TYPE = 'PARQUET'",
			"    COMPRESSION = 'SNAPPY';",
			"",
		)
	}

	return append(lines,
		"-- File format for CSV",
		fmt.Sprintf("CREATE FILE FORMAT IF NOT EXISTS %s", fileFormat),
		"    TYPE = 'CSV'",
		"    COMPRESSION = 'GZIP'",
		"    FIELD_DELIMITER = ','",
		"    RECORD_DELIMITER = '\\n'",
		"    SKIP_HEADER = 1",
		`    FIELD_OPTIONALLY_ENCLOSED_BY = '"'`,
		"    TRIM_SPACE = TRUE",
		"    ERROR_ON_COLUMN_COUNT_MISMATCH = FALSE",
		"    ESCAPE = 'NONE'",
		`    ESCAPE_UNENCLOSED_FIELD = '\\'`,
		"    DATE_FORMAT = 'AUTO'",
		"    TIMESTAMP_FORMAT = 'AUTO'",
		`    NULL_IF = ('\\N', 'NULL', 'null', '');`,
		"",
	)
}

// Emit generates the complete Snowflake DDL script for an analyzed run,
// along with the accumulated mapping decisions and recommendations.
func (e *Emitter) Emit(run model.AnalysisRun, sf model.SnowflakeConfig) Output {
	var lines []string
	var mappings []model.MappingDecision
	var recommendations []model.Recommendation

	lines = append(lines,
		"-- =============================================================================",
		"-- Snowflake Migration DDL",
		fmt.Sprintf("-- Generated: %s", run.Metadata.AnalysisTimestamp),
		fmt.Sprintf("-- Source: PostgreSQL %s", run.Metadata.Database),
		"-- =============================================================================",
		"",
	)

	lines = append(lines, e.GenerateDatabaseDDL(sf.Database)...)
	lines = append(lines, e.GenerateStageAndFormat(sf.Stage, sf.FileFormat)...)

	for _, schema := range run.Schemas {
		lines = append(lines, e.GenerateSchemaDDL(schema.SchemaName)...)

		for _, seq := range schema.Sequences {
			lines = append(lines, e.GenerateSequenceDDL(schema.SchemaName, seq))
		}
		lines = append(lines, "")

		for _, table := range schema.Tables {
			ddl, tableMappings, rec := e.GenerateTableDDL(schema.SchemaName, table)
			lines = append(lines, ddl, "")
			mappings = append(mappings, tableMappings...)
			if rec != nil {
				recommendations = append(recommendations, *rec)
			}
		}

		for _, view := range schema.Views {
			lines = append(lines, e.GenerateViewDDL(schema.SchemaName, view), "")
		}
	}

	return Output{
		DDL:              strings.Join(lines, "\n"),
		MappingDecisions: mappings,
		Recommendations:  recommendations,
	}
}

func lastSegment(dotted string) string {
	parts := strings.Split(dotted, ".")
	return parts[len(parts)-1]
}

// extractQuotedSegment pulls the first single-quoted literal out of a
// PostgreSQL default expression such as nextval('schema.seq_name'::regclass).
func extractQuotedSegment(expr string) (string, bool) {
	parts := strings.SplitN(expr, "'", 3)
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

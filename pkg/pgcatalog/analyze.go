// SPDX-License-Identifier: Apache-2.0

package pgcatalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

// ReservedWords mirrors Snowflake's reserved keyword list. It is used both
// to flag source identifiers that will need quoting in the target
// (assessCompatibility below) and, via pkg/ddlgen, to decide which
// identifiers DDL emission must quote.
var ReservedWords = map[string]bool{
	"ACCOUNT": true, "ALL": true, "ALTER": true, "AND": true, "ANY": true,
	"AS": true, "BETWEEN": true, "BY": true, "CASE": true, "CAST": true,
	"CHECK": true, "COLUMN": true, "CONNECT": true, "COPY": true, "CREATE": true,
	"CURRENT": true, "DATABASE": true, "DELETE": true, "DISTINCT": true, "DROP": true,
	"ELSE": true, "EXISTS": true, "FALSE": true, "FOLLOWING": true, "FOR": true,
	"FROM": true, "FULL": true, "GRANT": true, "GROUP": true, "HAVING": true,
	"ILIKE": true, "IN": true, "INCREMENT": true, "INSERT": true, "INTERSECT": true,
	"INTO": true, "IS": true, "ISSUE": true, "JOIN": true, "LATERAL": true,
	"LEFT": true, "LIKE": true, "LOCALTIME": true, "LOCALTIMESTAMP": true, "MINUS": true,
	"NATURAL": true, "NOT": true, "NULL": true, "OF": true, "ON": true,
	"OR": true, "ORDER": true, "ORGANIZATION": true, "QUALIFY": true, "REGEXP": true,
	"REVOKE": true, "RIGHT": true, "RLIKE": true, "ROW": true, "ROWS": true,
	"SAMPLE": true, "SCHEMA": true, "SELECT": true, "SET": true, "SOME": true,
	"START": true, "TABLE": true, "TABLESAMPLE": true, "THEN": true, "TO": true,
	"TRIGGER": true, "TRUE": true, "TRY_CAST": true, "UNION": true, "UNIQUE": true,
	"UPDATE": true, "USING": true, "VALUES": true, "VIEW": true, "WHEN": true,
	"WHENEVER": true, "WHERE": true, "WITH": true,
}

// wideTableColumnThreshold flags tables with more columns than Snowflake
// comfortably handles in a single SELECT without performance concerns.
const wideTableColumnThreshold = 500

// largeVarcharThreshold flags character columns whose declared length
// exceeds Snowflake's VARCHAR ceiling.
const largeVarcharThreshold = 16777216

// AnalyzeComplete walks every schema eligible for analysis (per
// config.Schemas) and returns a complete model.AnalysisRun: schemas, tables,
// columns, constraints, indexes, sequences, views, functions, triggers,
// extensions, special types, volumetrics and compatibility flags.
func (c *Catalog) AnalyzeComplete(ctx context.Context) (model.AnalysisRun, error) {
	schemaMetas, err := c.GetSchemas(ctx)
	if err != nil {
		return model.AnalysisRun{}, err
	}

	extensions, err := c.GetExtensions(ctx)
	if err != nil {
		return model.AnalysisRun{}, err
	}

	var schemas []model.Schema
	for _, sm := range schemaMetas {
		schema, err := c.analyzeSchema(ctx, sm)
		if err != nil {
			return model.AnalysisRun{}, err
		}
		schemas = append(schemas, schema)
	}

	run := model.AnalysisRun{
		Metadata: model.AnalysisMetadata{
			AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
			Database:          c.config.Database,
			Host:              c.config.Host,
			SchemasAnalyzed:   len(schemas),
		},
		Schemas:    schemas,
		Extensions: extensions,
	}
	run.Volumetrics = calculateVolumetrics(schemas)
	run.CompatibilityFlags = assessCompatibility(schemas)

	return run, nil
}

func (c *Catalog) analyzeSchema(ctx context.Context, sm model.SchemaMetadata) (model.Schema, error) {
	tableMetas, err := c.GetTables(ctx, sm.SchemaName)
	if err != nil {
		return model.Schema{}, err
	}

	var tables []model.Table
	for _, tm := range tableMetas {
		if tm.TableType != "BASE TABLE" {
			continue
		}
		table, err := c.analyzeTable(ctx, sm.SchemaName, tm)
		if err != nil {
			return model.Schema{}, err
		}
		tables = append(tables, table)
	}

	sequences, err := c.GetSequences(ctx, sm.SchemaName)
	if err != nil {
		return model.Schema{}, err
	}
	views, err := c.GetViews(ctx, sm.SchemaName)
	if err != nil {
		return model.Schema{}, err
	}
	functions, err := c.GetFunctions(ctx, sm.SchemaName)
	if err != nil {
		return model.Schema{}, err
	}
	specialTypes, err := c.AnalyzeSpecialTypes(ctx, sm.SchemaName)
	if err != nil {
		return model.Schema{}, err
	}

	return model.Schema{
		SchemaName:     sm.SchemaName,
		SchemaMetadata: sm,
		Tables:         tables,
		Sequences:      sequences,
		Views:          views,
		Functions:      functions,
		SpecialTypes:   specialTypes,
	}, nil
}

func (c *Catalog) analyzeTable(ctx context.Context, schema string, tm model.TableMetadata) (model.Table, error) {
	columns, err := c.GetColumns(ctx, schema, tm.TableName)
	if err != nil {
		return model.Table{}, err
	}
	constraints, err := c.GetConstraints(ctx, schema, tm.TableName)
	if err != nil {
		return model.Table{}, err
	}
	indexes, err := c.GetIndexes(ctx, schema, tm.TableName)
	if err != nil {
		return model.Table{}, err
	}
	triggers, err := c.GetTriggers(ctx, schema, tm.TableName)
	if err != nil {
		return model.Table{}, err
	}

	return model.Table{
		TableName:     tm.TableName,
		TableMetadata: tm,
		Columns:       columns,
		Constraints:   constraints,
		Indexes:       indexes,
		Triggers:      triggers,
	}, nil
}

// calculateVolumetrics summarizes total size and row counts across all
// analyzed tables, and ranks the 20 largest by size.
func calculateVolumetrics(schemas []model.Schema) model.Volumetrics {
	var v model.Volumetrics
	var largest []model.LargestTable

	for _, s := range schemas {
		for _, t := range s.Tables {
			v.TotalSizeBytes += t.TableMetadata.TotalSizeBytes
			v.ApproximateTotalRows += t.TableMetadata.ApproximateRowCount
			v.TotalTables++
			largest = append(largest, model.LargestTable{
				Schema:    s.SchemaName,
				Table:     t.TableName,
				SizeBytes: t.TableMetadata.TotalSizeBytes,
				Rows:      t.TableMetadata.ApproximateRowCount,
			})
		}
	}

	sortLargestTablesDesc(largest)
	if len(largest) > 20 {
		largest = largest[:20]
	}
	v.LargestTables = largest
	v.TotalSizeGB = float64(v.TotalSizeBytes) / (1024 * 1024 * 1024)

	return v
}

func sortLargestTablesDesc(tables []model.LargestTable) {
	for i := 1; i < len(tables); i++ {
		for j := i; j > 0 && tables[j].SizeBytes > tables[j-1].SizeBytes; j-- {
			tables[j], tables[j-1] = tables[j-1], tables[j]
		}
	}
}

// assessCompatibility flags tables, columns and routines that may need
// attention when moving to Snowflake: reserved-word identifiers, overly
// wide tables, oversized varchars, LOB columns, foreign-key or check constraints,
// triggers and stored routines (none of which Snowflake translates
// automatically).
func assessCompatibility(schemas []model.Schema) model.CompatibilityFlags {
	var flags model.CompatibilityFlags

	for _, s := range schemas {
		for _, t := range s.Tables {
			qualified := fmt.Sprintf("%s.%s", s.SchemaName, t.TableName)

			if ReservedWords[strings.ToUpper(t.TableName)] {
				flags.ReservedIdentifiers = append(flags.ReservedIdentifiers, qualified)
			}
			if len(t.Columns) > wideTableColumnThreshold {
				flags.WideTables = append(flags.WideTables, qualified)
			}

			for _, col := range t.Columns {
				if ReservedWords[strings.ToUpper(col.ColumnName)] {
					flags.ReservedIdentifiers = append(flags.ReservedIdentifiers, qualified+"."+col.ColumnName)
				}
				if col.CharacterMaxLength != nil && *col.CharacterMaxLength > largeVarcharThreshold {
					flags.LargeVarchars = append(flags.LargeVarchars, qualified+"."+col.ColumnName)
				}
				if col.DataType == "bytea" {
					flags.LOBColumns = append(flags.LOBColumns, qualified+"."+col.ColumnName)
				}
			}

			if len(t.Constraints.ForeignKeys) > 0 || len(t.Constraints.CheckConstraints) > 0 {
				flags.ComplexConstraints = append(flags.ComplexConstraints, qualified)
			}
			for _, trig := range t.Triggers {
				flags.Triggers = append(flags.Triggers, qualified+"."+trig.TriggerName)
			}
		}

		for _, fn := range s.Functions {
			flags.Functions = append(flags.Functions, s.SchemaName+"."+fn.FunctionName)
		}
	}

	return flags
}

// SPDX-License-Identifier: Apache-2.0

// Package validate cross-checks migrated data between PostgreSQL and
// Snowflake: row counts, NOT NULL constraints, primary key duplicates, and
// JSON validity. A failed check is reported as a FAIL result, not a Go
// error — validation failures neither abort a run nor change its final
// status.
package validate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

const (
	checkRowCount     = "row_count"
	checkNotNull      = "not_null_constraints"
	checkPKDuplicates = "primary_key_duplicates"
	checkJSONValidity = "json_validity"

	statusPass  = "PASS"
	statusFail  = "FAIL"
	statusSkip  = "SKIP"
	statusError = "ERROR"
)

// Validator cross-checks a single schema.table between the two drivers.
type Validator struct {
	pg *sql.DB
	sf *sql.DB
}

// New wraps already-open PostgreSQL and Snowflake connections for
// validation. This package never opens a connection itself; the
// orchestrator's Validate phase opens a fresh PostgreSQL and Snowflake
// connection and passes their *sql.DB handles in here.
func New(pg, sf *sql.DB) *Validator {
	return &Validator{pg: pg, sf: sf}
}

func (v *Validator) pgRowCount(ctx context.Context, schema, table string) (int64, error) {
	var count int64
	err := v.pg.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q.%q`, schema, table)).Scan(&count)
	return count, err
}

func (v *Validator) sfRowCount(ctx context.Context, schema, table string) (int64, error) {
	var count int64
	err := v.sf.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q.%q`, schema, table)).Scan(&count)
	return count, err
}

// ValidateRowCounts compares the exact row count of one table between
// source and target.
func (v *Validator) ValidateRowCounts(ctx context.Context, schema, table string) model.ValidationResult {
	pgCount, err := v.pgRowCount(ctx, schema, table)
	if err != nil {
		return errorResult(schema, table, checkRowCount, err)
	}
	sfCount, err := v.sfRowCount(ctx, schema, table)
	if err != nil {
		return errorResult(schema, table, checkRowCount, err)
	}

	matches := pgCount == sfCount
	status := statusFail
	message := fmt.Sprintf("Row count mismatch: PG=%d, SF=%d", pgCount, sfCount)
	if matches {
		status = statusPass
		message = fmt.Sprintf("Row counts match (%d)", pgCount)
	}

	return model.ValidationResult{
		Schema: schema, Table: table, Check: checkRowCount,
		Status: status, Message: message,
		PostgresValue: &pgCount, SnowflakeValue: &sfCount, Matches: &matches,
	}
}

// CheckNullConstraints verifies that columns declared NOT NULL in
// PostgreSQL hold no NULLs in the migrated Snowflake table.
func (v *Validator) CheckNullConstraints(ctx context.Context, schema, table string, notNullColumns []string) model.ValidationResult {
	var violations []model.NullViolation

	for _, column := range notNullColumns {
		var nullCount int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %q.%q WHERE %q IS NULL`, schema, table, column)
		if err := v.sf.QueryRowContext(ctx, query).Scan(&nullCount); err != nil {
			continue
		}
		if nullCount > 0 {
			violations = append(violations, model.NullViolation{Column: column, NullCount: nullCount})
		}
	}

	status := statusPass
	message := "All NOT NULL constraints satisfied"
	if len(violations) > 0 {
		status = statusFail
		message = fmt.Sprintf("%d columns have NULL violations", len(violations))
	}

	return model.ValidationResult{
		Schema: schema, Table: table, Check: checkNotNull,
		Status: status, Message: message, Violations: violations,
	}
}

// CheckPrimaryKeyDuplicates looks for duplicate primary key value
// combinations in the migrated table (PKs are not enforced on standard
// Snowflake tables, so this replaces the constraint PostgreSQL had).
func (v *Validator) CheckPrimaryKeyDuplicates(ctx context.Context, schema, table string, pkColumns []string) model.ValidationResult {
	if len(pkColumns) == 0 {
		return model.ValidationResult{
			Schema: schema, Table: table, Check: checkPKDuplicates,
			Status: statusSkip, Message: "No primary key defined",
		}
	}

	pkList := quoteColumnList(pkColumns)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) as cnt
		FROM %q.%q
		GROUP BY %s
		HAVING COUNT(*) > 1
		LIMIT 10
	`, pkList, schema, table, pkList)

	rows, err := v.sf.QueryContext(ctx, query)
	if err != nil {
		return errorResult(schema, table, checkPKDuplicates, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return errorResult(schema, table, checkPKDuplicates, err)
	}

	if count > 0 {
		return model.ValidationResult{
			Schema: schema, Table: table, Check: checkPKDuplicates,
			Status: statusFail, DuplicateCount: count,
			Message: fmt.Sprintf("Found %d duplicate primary key combinations (showing first 10)", count),
		}
	}

	return model.ValidationResult{
		Schema: schema, Table: table, Check: checkPKDuplicates,
		Status: statusPass, Message: "No duplicate primary keys found",
	}
}

// CheckJSONValidity verifies every non-null value in a VARIANT column
// (originally PostgreSQL json/jsonb) parses as valid JSON.
func (v *Validator) CheckJSONValidity(ctx context.Context, schema, table string, jsonColumns []string) model.ValidationResult {
	if len(jsonColumns) == 0 {
		return model.ValidationResult{
			Schema: schema, Table: table, Check: checkJSONValidity,
			Status: statusSkip, Message: "No JSON columns",
		}
	}

	invalidCounts := map[string]int64{}
	var total int64

	for _, column := range jsonColumns {
		var invalidCount int64
		query := fmt.Sprintf(`
			SELECT COUNT(*)
			FROM %q.%q
			WHERE %q IS NOT NULL
			  AND TRY_PARSE_JSON(%q) IS NULL
		`, schema, table, column, column)
		if err := v.sf.QueryRowContext(ctx, query).Scan(&invalidCount); err != nil {
			continue
		}
		if invalidCount > 0 {
			invalidCounts[column] = invalidCount
			total += invalidCount
		}
	}

	status := statusPass
	message := "All JSON values are valid"
	if len(invalidCounts) > 0 {
		status = statusFail
		message = fmt.Sprintf("%d invalid JSON values found", total)
	}

	return model.ValidationResult{
		Schema: schema, Table: table, Check: checkJSONValidity,
		Status: status, Message: message, InvalidCounts: invalidCounts,
	}
}

// ValidateTable runs all four checks against a single table.
func (v *Validator) ValidateTable(ctx context.Context, schema string, table model.Table) []model.ValidationResult {
	var notNullColumns, jsonColumns []string
	for _, col := range table.Columns {
		if !col.IsNullable {
			notNullColumns = append(notNullColumns, col.ColumnName)
		}
		if col.DataType == "json" || col.DataType == "jsonb" || strings.Contains(strings.ToLower(col.DataType), "json") {
			jsonColumns = append(jsonColumns, col.ColumnName)
		}
	}

	var pkColumns []string
	if len(table.Constraints.PrimaryKeys) > 0 {
		pkColumns = table.Constraints.PrimaryKeys[0].Columns
	}

	return []model.ValidationResult{
		v.ValidateRowCounts(ctx, schema, table.TableName),
		v.CheckNullConstraints(ctx, schema, table.TableName, notNullColumns),
		v.CheckPrimaryKeyDuplicates(ctx, schema, table.TableName, pkColumns),
		v.CheckJSONValidity(ctx, schema, table.TableName, jsonColumns),
	}
}

func errorResult(schema, table, check string, err error) model.ValidationResult {
	return model.ValidationResult{
		Schema: schema, Table: table, Check: check,
		Status: statusError, Message: err.Error(),
	}
}

func quoteColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}

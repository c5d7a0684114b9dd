// SPDX-License-Identifier: Apache-2.0

package ddlgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/ddlgen"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

func intPtr(i int) *int { return &i }

func boolFalseDefault(s string) *string { return &s }

func sampleTable() model.Table {
	return model.Table{
		TableName: "orders",
		TableMetadata: model.TableMetadata{
			TableName:      "orders",
			TotalSizeBytes: 1024,
			TableComment:   "customer orders",
		},
		Columns: []model.Column{
			{ColumnName: "id", DataType: "bigint", IsNullable: false, IsIdentity: true, IdentityStart: int64Ptr(1), IdentityIncrement: int64Ptr(1)},
			{ColumnName: "user_id", DataType: "bigint", IsNullable: true},
			{ColumnName: "amount", DataType: "numeric", NumericPrecision: intPtr(10), NumericScale: intPtr(2), IsNullable: false},
			{ColumnName: "status", DataType: "character varying", CharacterMaxLength: intPtr(20), IsNullable: false, ColumnDefault: boolFalseDefault("'pending'::character varying")},
		},
		Constraints: model.Constraints{
			PrimaryKeys: []model.KeyConstraint{{ConstraintName: "orders_pkey", ConstraintType: "PRIMARY KEY", Columns: []string{"id"}}},
			ForeignKeys: []model.ForeignKey{{ConstraintName: "orders_user_id_fkey", ColumnName: "user_id", ForeignTableSchema: "public", ForeignTableName: "users", ForeignColumnName: "id"}},
		},
	}
}

func int64Ptr(i int64) *int64 { return &i }

func TestGenerateTableDDL(t *testing.T) {
	e := ddlgen.New(model.DefaultPreferences())

	ddl, mappings, rec := e.GenerateTableDDL("public", sampleTable())

	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS PUBLIC.ORDERS`)
	assert.Contains(t, ddl, "IDENTITY(1, 1)")
	assert.Contains(t, ddl, "NUMBER(10,2)")
	assert.Contains(t, ddl, "CONSTRAINT ORDERS_PKEY PRIMARY KEY (ID)")
	assert.Contains(t, ddl, "-- Foreign key constraints")
	assert.Contains(t, ddl, "COMMENT ON TABLE")
	assert.Nil(t, rec)
	require.Len(t, mappings, 4)
	assert.Equal(t, "orders", mappings[0].Table)
}

func TestGenerateTableDDLClusterKeyRecommendation(t *testing.T) {
	e := ddlgen.New(model.DefaultPreferences())

	table := sampleTable()
	table.TableMetadata.TotalSizeBytes = 20 * 1024 * 1024 * 1024

	_, _, rec := e.GenerateTableDDL("public", table)

	require.NotNil(t, rec)
	assert.Equal(t, model.ClusterKeyRecommendation, rec.Kind)
	assert.Contains(t, rec.Recommendation, "CLUSTER KEY")
}

func TestGenerateTableDDLClusterKeyHintOverridesHeuristic(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.ClusterKeyHints = map[string][]string{"orders": {"status"}}
	e := ddlgen.New(prefs)

	table := sampleTable()
	table.TableMetadata.TotalSizeBytes = 20 * 1024 * 1024 * 1024

	ddl, _, rec := e.GenerateTableDDL("public", table)

	assert.Nil(t, rec)
	assert.Contains(t, ddl, "CLUSTER BY (STATUS)")
}

func TestQuoteIdentifierReservedWord(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.CaseStyle = model.CasePreserve
	e := ddlgen.New(prefs)

	ddl := e.GenerateSchemaDDL("all")
	assert.Contains(t, strings.Join(ddl, "\n"), `"all"`)
}

func TestQuoteIdentifierReservedColumnName(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.CaseStyle = model.CaseUpper
	e := ddlgen.New(prefs)

	table := sampleTable()
	table.Columns = append(table.Columns, model.Column{ColumnName: "order", DataType: "integer", IsNullable: true})

	ddl, _, _ := e.GenerateTableDDL("public", table)

	assert.Contains(t, ddl, `"ORDER"`)
}

func TestGenerateViewDDLStub(t *testing.T) {
	e := ddlgen.New(model.DefaultPreferences())

	ddl := e.GenerateViewDDL("public", model.View{ViewName: "v_totals", ViewDefinition: "SELECT 1"})

	assert.Contains(t, ddl, "TODO: Review and transform")
	assert.Contains(t, ddl, "-- SELECT 1")
}

func TestGenerateStageAndFormatCSV(t *testing.T) {
	e := ddlgen.New(model.DefaultPreferences())

	lines := e.GenerateStageAndFormat("migration_stage", "csv_format")

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "TYPE = 'CSV'")
	assert.Contains(t, joined, "COMPRESSION = 'GZIP'")
}

func TestGenerateStageAndFormatParquet(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.Format = model.FormatParquet
	e := ddlgen.New(prefs)

	lines := e.GenerateStageAndFormat("migration_stage", "parquet_format")

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "TYPE = 'PARQUET'")
	assert.Contains(t, joined, "COMPRESSION = 'SNAPPY'")
}

// SPDX-License-Identifier: Apache-2.0

// Package model holds the shared data structures passed between the
// catalog introspector, type mapper, DDL emitter, extractor, loader,
// validator and orchestrator.
package model

// SSLMode is a PostgreSQL sslmode value.
type SSLMode string

const (
	SSLDisable    SSLMode = "disable"
	SSLAllow      SSLMode = "allow"
	SSLPrefer     SSLMode = "prefer"
	SSLRequire    SSLMode = "require"
	SSLVerifyCA   SSLMode = "verify-ca"
	SSLVerifyFull SSLMode = "verify-full"
)

// DataFormat is the extraction file format.
type DataFormat string

const (
	FormatCSV     DataFormat = "CSV"
	FormatParquet DataFormat = "PARQUET"
)

// CaseStyle controls identifier normalization in the DDL emitter.
type CaseStyle string

const (
	CaseUpper    CaseStyle = "UPPER"
	CaseLower    CaseStyle = "LOWER"
	CasePreserve CaseStyle = "PRESERVE"
)

// Phase is a step in the orchestrator's state machine.
type Phase string

const (
	PhasePending              Phase = "pending"
	PhaseAnalyzing            Phase = "analyzing"
	PhasePlanning             Phase = "planning"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseExecuting            Phase = "executing"
	PhaseValidating           Phase = "validating"
	PhaseCompleted            Phase = "completed"
	PhaseFailed               Phase = "failed"
	PhaseCancelled            Phase = "cancelled"
)

// PostgresSSL carries the SSL configuration for a PostgreSQL connection.
type PostgresSSL struct {
	Mode SSLMode `json:"mode" yaml:"mode"`
	CA   string  `json:"ca,omitempty" yaml:"ca,omitempty"`
}

// PostgresConfig describes how to connect to the source PostgreSQL database.
type PostgresConfig struct {
	Host     string       `json:"host" yaml:"host"`
	Port     int          `json:"port" yaml:"port"`
	Database string       `json:"database" yaml:"database"`
	Username string       `json:"username" yaml:"username"`
	Password string       `json:"password" yaml:"password"`
	Schemas  []string     `json:"schemas" yaml:"schemas"`
	SSL      *PostgresSSL `json:"ssl,omitempty" yaml:"ssl,omitempty"`
}

// SnowflakeConfig describes the target Snowflake warehouse/database.
type SnowflakeConfig struct {
	Account     string `json:"account" yaml:"account"`
	Warehouse   string `json:"warehouse" yaml:"warehouse"`
	Database    string `json:"database" yaml:"database"`
	DefaultRole string `json:"default_role" yaml:"default_role"`
	Schema      string `json:"schema" yaml:"schema"`
	Stage       string `json:"stage" yaml:"stage"`
	FileFormat  string `json:"file_format" yaml:"file_format"`
}

// OAuthConfig carries the bearer token used to authenticate to Snowflake.
type OAuthConfig struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
}

// Preferences controls the behavior of the migration.
type Preferences struct {
	Format               DataFormat          `json:"format" yaml:"format"`
	MaxChunkMB           int                 `json:"max_chunk_mb" yaml:"max_chunk_mb"`
	Parallelism          int                 `json:"parallelism" yaml:"parallelism"`
	UseIdentityForSerial bool                `json:"use_identity_for_serial" yaml:"use_identity_for_serial"`
	ClusterKeyHints      map[string][]string `json:"cluster_key_hints" yaml:"cluster_key_hints"`
	CaseStyle            CaseStyle           `json:"case_style" yaml:"case_style"`
	DryRun               bool                `json:"dry_run" yaml:"dry_run"`
}

// DefaultPreferences returns the preference set used when a request omits
// one, mirroring the defaults of the original Pydantic model.
func DefaultPreferences() Preferences {
	return Preferences{
		Format:               FormatCSV,
		MaxChunkMB:           200,
		Parallelism:          4,
		UseIdentityForSerial: true,
		ClusterKeyHints:      map[string][]string{},
		CaseStyle:            CaseUpper,
	}
}

// Control carries the run identifier and execution gate.
type Control struct {
	RunID   string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Confirm bool   `json:"confirm" yaml:"confirm"`
}

// Request is the complete migration request payload.
type Request struct {
	Postgres    PostgresConfig `json:"postgres" yaml:"postgres"`
	Snowflake   SnowflakeConfig `json:"snowflake" yaml:"snowflake"`
	Auth        OAuthConfig    `json:"auth" yaml:"auth"`
	Preferences Preferences    `json:"preferences" yaml:"preferences"`
	Control     Control        `json:"control" yaml:"control"`
}

// Column describes a single column of a table as introspected from
// information_schema.columns.
type Column struct {
	OrdinalPosition     int    `json:"ordinal_position"`
	ColumnName          string `json:"column_name"`
	DataType            string `json:"data_type"`
	UDTName             string `json:"udt_name"`
	CharacterMaxLength  *int   `json:"character_maximum_length"`
	NumericPrecision    *int   `json:"numeric_precision"`
	NumericScale        *int   `json:"numeric_scale"`
	IsNullable          bool   `json:"is_nullable"`
	ColumnDefault       *string `json:"column_default"`
	IsIdentity          bool   `json:"is_identity"`
	IdentityGeneration  string `json:"identity_generation"`
	IdentityStart       *int64 `json:"identity_start"`
	IdentityIncrement   *int64 `json:"identity_increment"`
	IsGenerated         bool   `json:"is_generated"`
	GenerationExpression string `json:"generation_expression"`
	ColumnComment       string `json:"column_comment"`
	SerialSequence      string `json:"serial_sequence"`
}

// KeyConstraint is a primary or unique key constraint.
type KeyConstraint struct {
	ConstraintName string   `json:"constraint_name"`
	ConstraintType string   `json:"constraint_type"`
	Columns        []string `json:"columns"`
}

// ForeignKey is a single foreign key column reference, one row per column
// the way information_schema reports it.
type ForeignKey struct {
	ConstraintName      string `json:"constraint_name"`
	ColumnName          string `json:"column_name"`
	ForeignTableSchema  string `json:"foreign_table_schema"`
	ForeignTableName    string `json:"foreign_table_name"`
	ForeignColumnName   string `json:"foreign_column_name"`
	UpdateRule          string `json:"update_rule"`
	DeleteRule          string `json:"delete_rule"`
}

// CheckConstraint is a CHECK constraint on a table.
type CheckConstraint struct {
	ConstraintName string `json:"constraint_name"`
	CheckClause    string `json:"check_clause"`
}

// Constraints groups all constraint kinds gathered for a table.
type Constraints struct {
	PrimaryKeys     []KeyConstraint   `json:"primary_keys"`
	UniqueKeys      []KeyConstraint   `json:"unique_keys"`
	ForeignKeys     []ForeignKey      `json:"foreign_keys"`
	CheckConstraints []CheckConstraint `json:"check_constraints"`
}

// Index describes a physical index on a table.
type Index struct {
	IndexName       string   `json:"index_name"`
	IndexDefinition string   `json:"index_definition"`
	IsUnique        bool     `json:"is_unique"`
	IsPrimary       bool     `json:"is_primary"`
	Columns         []string `json:"columns"`
	IndexSize       string   `json:"index_size"`
}

// Sequence describes a standalone sequence object in a schema.
type Sequence struct {
	SequenceSchema string `json:"sequence_schema"`
	SequenceName   string `json:"sequence_name"`
	DataType       string `json:"data_type"`
	StartValue     int64  `json:"start_value"`
	MinimumValue   int64  `json:"minimum_value"`
	MaximumValue   int64  `json:"maximum_value"`
	Increment      int64  `json:"increment"`
	CycleOption    string `json:"cycle_option"`
}

// View describes a view or materialized view.
type View struct {
	ViewName       string `json:"view_name"`
	ViewDefinition string `json:"view_definition"`
	ViewType       string `json:"view_type"`
}

// Function describes a routine (function or procedure).
type Function struct {
	FunctionName      string   `json:"function_name"`
	RoutineType       string   `json:"routine_type"`
	ReturnType        string   `json:"return_type"`
	RoutineDefinition string   `json:"routine_definition"`
	Parameters        []string `json:"parameters"`
}

// Trigger describes a trigger attached to a table.
type Trigger struct {
	TriggerName string `json:"trigger_name"`
	Event       string `json:"event"`
	Timing      string `json:"timing"`
	Action      string `json:"action"`
}

// Extension describes an installed PostgreSQL extension.
type Extension struct {
	ExtensionName string `json:"extension_name"`
	Version       string `json:"version"`
	Schema        string `json:"schema"`
}

// TableMetadata is the row-level metadata information_schema.tables and
// pg_class report for a single table.
type TableMetadata struct {
	TableSchema          string `json:"table_schema"`
	TableName            string `json:"table_name"`
	TableType            string `json:"table_type"`
	TotalSizeBytes       int64  `json:"total_size_bytes"`
	ApproximateRowCount  int64  `json:"approximate_row_count"`
	TableComment         string `json:"table_comment"`
}

// Table bundles a table's metadata with everything introspected about it.
type Table struct {
	TableName     string        `json:"table_name"`
	TableMetadata TableMetadata `json:"table_metadata"`
	Columns       []Column      `json:"columns"`
	Constraints   Constraints   `json:"constraints"`
	Indexes       []Index       `json:"indexes"`
	Triggers      []Trigger     `json:"triggers"`
}

// SpecialTypeDetail names one column that uses a special PostgreSQL type.
type SpecialTypeDetail struct {
	TableName           string `json:"table_name"`
	ColumnName          string `json:"column_name"`
	DataType            string `json:"data_type"`
	UDTName             string `json:"udt_name"`
	SpecialTypeCategory string `json:"special_type_category"`
}

// SpecialTypes groups special-type columns found in a schema by category.
type SpecialTypes struct {
	Details []SpecialTypeDetail `json:"details"`
	Summary map[string][]string `json:"summary"`
}

// SchemaMetadata is the row-level metadata for a schema.
type SchemaMetadata struct {
	SchemaName  string `json:"schema_name"`
	SchemaOwner string `json:"schema_owner"`
	TableCount  int    `json:"table_count"`
}

// Schema bundles everything introspected about a single PostgreSQL schema.
type Schema struct {
	SchemaName     string         `json:"schema_name"`
	SchemaMetadata SchemaMetadata `json:"schema_metadata"`
	Tables         []Table        `json:"tables"`
	Sequences      []Sequence     `json:"sequences"`
	Views          []View         `json:"views"`
	Functions      []Function     `json:"functions"`
	SpecialTypes   SpecialTypes   `json:"special_types"`
}

// LargestTable is one row of the volumetrics top-20 list.
type LargestTable struct {
	Schema   string `json:"schema"`
	Table    string `json:"table"`
	SizeBytes int64  `json:"size_bytes"`
	Rows     int64  `json:"rows"`
}

// Volumetrics summarizes the size of the analyzed schemas.
type Volumetrics struct {
	TotalSizeBytes       int64          `json:"total_size_bytes"`
	TotalSizeGB          float64        `json:"total_size_gb"`
	TotalTables          int            `json:"total_tables"`
	ApproximateTotalRows int64          `json:"approximate_total_rows"`
	LargestTables        []LargestTable `json:"largest_tables"`
}

// CompatibilityFlags flags potential Snowflake compatibility issues found
// while walking the analyzed schemas.
type CompatibilityFlags struct {
	ReservedIdentifiers []string `json:"reserved_identifiers"`
	WideTables          []string `json:"wide_tables"`
	LargeVarchars       []string `json:"large_varchars"`
	LOBColumns          []string `json:"lob_columns"`
	ComplexConstraints  []string `json:"complex_constraints"`
	Triggers            []string `json:"triggers"`
	Functions           []string `json:"functions"`
}

// AnalysisMetadata records when/what was analyzed.
type AnalysisMetadata struct {
	AnalysisTimestamp string `json:"analysis_timestamp"`
	Database          string `json:"database"`
	Host              string `json:"host"`
	SchemasAnalyzed   int    `json:"schemas_analyzed"`
}

// AnalysisRun is the complete result of a catalog introspection pass.
type AnalysisRun struct {
	Metadata           AnalysisMetadata    `json:"metadata"`
	Schemas            []Schema            `json:"schemas"`
	Extensions         []Extension         `json:"extensions"`
	Volumetrics        Volumetrics         `json:"volumetrics"`
	CompatibilityFlags CompatibilityFlags  `json:"compatibility_flags"`
}

// MappingDecision records how one column's PostgreSQL type was mapped to a
// Snowflake type, for the mapping_decisions.yml artifact.
type MappingDecision struct {
	Schema        string `json:"schema" yaml:"schema"`
	Table         string `json:"table" yaml:"table"`
	Column        string `json:"column" yaml:"column"`
	PostgresType  string `json:"postgres_type" yaml:"postgres_type"`
	SnowflakeType string `json:"snowflake_type" yaml:"snowflake_type"`
	Rationale     string `json:"rationale" yaml:"rationale"`
	Nullable      bool   `json:"nullable" yaml:"nullable"`
	HasDefault    bool   `json:"has_default" yaml:"has_default"`
	IsIdentity    bool   `json:"is_identity" yaml:"is_identity"`
}

// RecommendationKind classifies an improvement recommendation.
type RecommendationKind string

const ClusterKeyRecommendation RecommendationKind = "CLUSTER_KEY"

// Recommendation is a single improvement-recommendations.md entry generated
// while emitting DDL.
type Recommendation struct {
	Kind           RecommendationKind `json:"type"`
	Table          string             `json:"table"`
	Recommendation string             `json:"recommendation"`
}

// TableStatus is the status of one table's migration.
type TableStatus struct {
	TableName      string `json:"table_name"`
	SchemaName     string `json:"schema_name"`
	Status         string `json:"status"`
	RowsLoaded     int64  `json:"rows_loaded"`
	BytesProcessed int64  `json:"bytes_processed"`
	DurationMS     int64  `json:"duration_ms"`
	Retries        int    `json:"retries"`
	Error          string `json:"error,omitempty"`
}

// LoadResult is the outcome of loading a single staged file via COPY INTO.
type LoadResult struct {
	Table      string `json:"table"`
	File       string `json:"file"`
	RowsLoaded int64  `json:"rows_loaded"`
	DurationMS int64  `json:"duration_ms"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// MigrationResult is the outcome of migrating a single table end to end.
type MigrationResult struct {
	Schema      string       `json:"schema"`
	Table       string       `json:"table"`
	Status      string       `json:"status"`
	RowsLoaded  int64        `json:"rows_loaded"`
	FileCount   int          `json:"file_count"`
	DurationMS  int64        `json:"duration_ms"`
	LoadResults []LoadResult `json:"load_results"`
	Error       string       `json:"error,omitempty"`
}

// ValidationResult is the outcome of one validation check against one table.
type ValidationResult struct {
	Schema          string         `json:"schema"`
	Table           string         `json:"table"`
	Check           string         `json:"check"`
	Status          string         `json:"status"`
	Message         string         `json:"message"`
	PostgresValue   *int64         `json:"postgres_value,omitempty"`
	SnowflakeValue  *int64         `json:"snowflake_value,omitempty"`
	Matches         *bool          `json:"matches,omitempty"`
	Violations      []NullViolation `json:"violations,omitempty"`
	DuplicateCount  int            `json:"duplicate_count,omitempty"`
	InvalidCounts   map[string]int64 `json:"invalid_counts,omitempty"`
}

// NullViolation reports how many NULLs were found in a NOT NULL column.
type NullViolation struct {
	Column    string `json:"column"`
	NullCount int64  `json:"null_count"`
}

// Progress is a point-in-time snapshot of a run's execution.
type Progress struct {
	RunID            string        `json:"run_id"`
	Status           Phase         `json:"status"`
	Phase            string        `json:"phase"`
	ProgressPercent  float64       `json:"progress_percent"`
	TablesCompleted  int           `json:"tables_completed"`
	TablesTotal      int           `json:"tables_total"`
	CurrentOperation string        `json:"current_operation,omitempty"`
	TableStatuses    []TableStatus `json:"table_statuses"`
	Errors           []string      `json:"errors"`
	Warnings         []string      `json:"warnings"`
}

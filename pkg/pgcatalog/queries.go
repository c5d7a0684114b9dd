// SPDX-License-Identifier: Apache-2.0

package pgcatalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

const schemasQuery = `
	SELECT
		schema_name,
		schema_owner,
		(SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = s.schema_name) as table_count
	FROM information_schema.schemata s
	WHERE schema_name NOT IN ('pg_toast', 'pg_temp_1', 'pg_toast_temp_1')
	ORDER BY schema_name
`

// GetSchemas returns the schemas eligible for analysis: all schemas minus
// pg_catalog/information_schema when the configured allowlist is "*", or
// exactly the allowlisted schemas otherwise.
func (c *Catalog) GetSchemas(ctx context.Context) ([]model.SchemaMetadata, error) {
	all, err := query(ctx, c.db, schemasQuery, nil, func(rows *sql.Rows) (model.SchemaMetadata, error) {
		var s model.SchemaMetadata
		err := rows.Scan(&s.SchemaName, &s.SchemaOwner, &s.TableCount)
		return s, err
	})
	if err != nil {
		return nil, err
	}

	wildcard := false
	allow := map[string]bool{}
	for _, s := range c.config.Schemas {
		if s == "*" {
			wildcard = true
		}
		allow[s] = true
	}

	var filtered []model.SchemaMetadata
	for _, s := range all {
		if wildcard {
			if s.SchemaName == "pg_catalog" || s.SchemaName == "information_schema" {
				continue
			}
			filtered = append(filtered, s)
		} else if allow[s.SchemaName] {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

const tablesQuery = `
	SELECT
		t.table_schema,
		t.table_name,
		t.table_type,
		pg_total_relation_size(quote_ident(t.table_schema)||'.'||quote_ident(t.table_name))::bigint as total_size_bytes,
		COALESCE((SELECT reltuples::bigint FROM pg_class WHERE relname = t.table_name
		 AND relnamespace = (SELECT oid FROM pg_namespace WHERE nspname = t.table_schema)), 0) as approximate_row_count,
		COALESCE(obj_description((quote_ident(t.table_schema)||'.'||quote_ident(t.table_name))::regclass::oid), '') as table_comment
	FROM information_schema.tables t
	WHERE t.table_schema = $1
	  AND t.table_type IN ('BASE TABLE', 'VIEW', 'MATERIALIZED VIEW')
	ORDER BY total_size_bytes DESC NULLS LAST, t.table_name
`

// GetTables returns the tables, views and materialized views in a schema.
func (c *Catalog) GetTables(ctx context.Context, schema string) ([]model.TableMetadata, error) {
	return query(ctx, c.db, tablesQuery, []any{schema}, func(rows *sql.Rows) (model.TableMetadata, error) {
		var t model.TableMetadata
		err := rows.Scan(&t.TableSchema, &t.TableName, &t.TableType, &t.TotalSizeBytes, &t.ApproximateRowCount, &t.TableComment)
		return t, err
	})
}

const columnsQuery = `
	SELECT
		c.ordinal_position,
		c.column_name,
		c.data_type,
		c.udt_name,
		c.character_maximum_length,
		c.numeric_precision,
		c.numeric_scale,
		c.is_nullable = 'YES' as is_nullable,
		c.column_default,
		c.is_identity = 'YES' as is_identity,
		COALESCE(c.identity_generation, ''),
		c.identity_start::bigint,
		c.identity_increment::bigint,
		c.is_generated <> 'NEVER' as is_generated,
		COALESCE(c.generation_expression, ''),
		COALESCE(col_description((quote_ident(c.table_schema)||'.'||quote_ident(c.table_name))::regclass::oid, c.ordinal_position), ''),
		COALESCE(pg_get_serial_sequence(quote_ident(c.table_schema)||'.'||quote_ident(c.table_name), c.column_name), '')
	FROM information_schema.columns c
	WHERE c.table_schema = $1
	  AND c.table_name = $2
	ORDER BY c.ordinal_position
`

// GetColumns returns the columns of a table in ordinal order.
func (c *Catalog) GetColumns(ctx context.Context, schema, table string) ([]model.Column, error) {
	return query(ctx, c.db, columnsQuery, []any{schema, table}, func(rows *sql.Rows) (model.Column, error) {
		var col model.Column
		var identityStart, identityIncrement sql.NullInt64
		err := rows.Scan(
			&col.OrdinalPosition, &col.ColumnName, &col.DataType, &col.UDTName,
			&col.CharacterMaxLength, &col.NumericPrecision, &col.NumericScale,
			&col.IsNullable, &col.ColumnDefault, &col.IsIdentity, &col.IdentityGeneration,
			&identityStart, &identityIncrement, &col.IsGenerated, &col.GenerationExpression,
			&col.ColumnComment, &col.SerialSequence,
		)
		if identityStart.Valid {
			col.IdentityStart = &identityStart.Int64
		}
		if identityIncrement.Valid {
			col.IdentityIncrement = &identityIncrement.Int64
		}
		return col, err
	})
}

const primaryUniqueKeysQuery = `
	SELECT
		tc.constraint_name,
		tc.constraint_type,
		array_agg(kcu.column_name ORDER BY kcu.ordinal_position)
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.table_schema = $1
	  AND tc.table_name = $2
	  AND tc.constraint_type = $3
	GROUP BY tc.constraint_name, tc.constraint_type
`

const foreignKeysQuery = `
	SELECT
		tc.constraint_name,
		kcu.column_name,
		ccu.table_schema AS foreign_table_schema,
		ccu.table_name AS foreign_table_name,
		ccu.column_name AS foreign_column_name,
		rc.update_rule,
		rc.delete_rule
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	JOIN information_schema.referential_constraints AS rc
		ON tc.constraint_name = rc.constraint_name
		AND tc.table_schema = rc.constraint_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
	  AND tc.table_schema = $1
	  AND tc.table_name = $2
`

const checkConstraintsQuery = `
	SELECT
		cc.constraint_name,
		cc.check_clause
	FROM information_schema.check_constraints cc
	JOIN information_schema.table_constraints tc
		ON cc.constraint_name = tc.constraint_name
	WHERE tc.table_schema = $1
	  AND tc.table_name = $2
`

// GetConstraints returns the primary key, unique, foreign key and check
// constraints defined on a table.
func (c *Catalog) GetConstraints(ctx context.Context, schema, table string) (model.Constraints, error) {
	scanKey := func(rows *sql.Rows) (model.KeyConstraint, error) {
		var k model.KeyConstraint
		var cols pq.StringArray
		err := rows.Scan(&k.ConstraintName, &k.ConstraintType, &cols)
		k.Columns = []string(cols)
		return k, err
	}

	pks, err := query(ctx, c.db, primaryUniqueKeysQuery, []any{schema, table, "PRIMARY KEY"}, scanKey)
	if err != nil {
		return model.Constraints{}, err
	}
	uks, err := query(ctx, c.db, primaryUniqueKeysQuery, []any{schema, table, "UNIQUE"}, scanKey)
	if err != nil {
		return model.Constraints{}, err
	}
	fks, err := query(ctx, c.db, foreignKeysQuery, []any{schema, table}, func(rows *sql.Rows) (model.ForeignKey, error) {
		var fk model.ForeignKey
		err := rows.Scan(&fk.ConstraintName, &fk.ColumnName, &fk.ForeignTableSchema,
			&fk.ForeignTableName, &fk.ForeignColumnName, &fk.UpdateRule, &fk.DeleteRule)
		return fk, err
	})
	if err != nil {
		return model.Constraints{}, err
	}
	checks, err := query(ctx, c.db, checkConstraintsQuery, []any{schema, table}, func(rows *sql.Rows) (model.CheckConstraint, error) {
		var cc model.CheckConstraint
		err := rows.Scan(&cc.ConstraintName, &cc.CheckClause)
		return cc, err
	})
	if err != nil {
		return model.Constraints{}, err
	}

	return model.Constraints{
		PrimaryKeys:      pks,
		UniqueKeys:       uks,
		ForeignKeys:      fks,
		CheckConstraints: checks,
	}, nil
}

const indexesQuery = `
	SELECT
		i.indexname as index_name,
		i.indexdef as index_definition,
		ix.indisunique as is_unique,
		ix.indisprimary as is_primary,
		array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum)),
		pg_size_pretty(pg_relation_size(quote_ident(i.schemaname)||'.'||quote_ident(i.indexname)))
	FROM pg_indexes i
	JOIN pg_class c ON c.relname = i.tablename
	JOIN pg_index ix ON ix.indexrelid = (quote_ident(i.schemaname)||'.'||quote_ident(i.indexname))::regclass::oid
	JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = ANY(ix.indkey)
	WHERE i.schemaname = $1
	  AND i.tablename = $2
	GROUP BY i.indexname, i.indexdef, ix.indisunique, ix.indisprimary, i.schemaname
	ORDER BY i.indexname
`

// GetIndexes returns the indexes defined on a table.
func (c *Catalog) GetIndexes(ctx context.Context, schema, table string) ([]model.Index, error) {
	return query(ctx, c.db, indexesQuery, []any{schema, table}, func(rows *sql.Rows) (model.Index, error) {
		var idx model.Index
		var cols pq.StringArray
		err := rows.Scan(&idx.IndexName, &idx.IndexDefinition, &idx.IsUnique, &idx.IsPrimary, &cols, &idx.IndexSize)
		idx.Columns = []string(cols)
		return idx, err
	})
}

const sequencesQuery = `
	SELECT
		sequence_schema,
		sequence_name,
		data_type,
		start_value::bigint,
		minimum_value::bigint,
		maximum_value::bigint,
		increment::bigint,
		cycle_option
	FROM information_schema.sequences
	WHERE sequence_schema = $1
	ORDER BY sequence_name
`

// GetSequences returns the standalone sequences defined in a schema.
func (c *Catalog) GetSequences(ctx context.Context, schema string) ([]model.Sequence, error) {
	return query(ctx, c.db, sequencesQuery, []any{schema}, func(rows *sql.Rows) (model.Sequence, error) {
		var s model.Sequence
		err := rows.Scan(&s.SequenceSchema, &s.SequenceName, &s.DataType, &s.StartValue,
			&s.MinimumValue, &s.MaximumValue, &s.Increment, &s.CycleOption)
		return s, err
	})
}

const viewsQuery = `
	SELECT table_name as view_name, view_definition, 'VIEW' as view_type
	FROM information_schema.views
	WHERE table_schema = $1

	UNION ALL

	SELECT matviewname as view_name, definition as view_definition, 'MATERIALIZED VIEW' as view_type
	FROM pg_matviews
	WHERE schemaname = $1

	ORDER BY view_name
`

// GetViews returns the views and materialized views defined in a schema.
func (c *Catalog) GetViews(ctx context.Context, schema string) ([]model.View, error) {
	return query(ctx, c.db, viewsQuery, []any{schema}, func(rows *sql.Rows) (model.View, error) {
		var v model.View
		err := rows.Scan(&v.ViewName, &v.ViewDefinition, &v.ViewType)
		return v, err
	})
}

const functionsQuery = `
	SELECT
		r.routine_name as function_name,
		r.routine_type,
		r.data_type as return_type,
		COALESCE(r.routine_definition, ''),
		array_agg(COALESCE(p.parameter_name, '') || ' ' || COALESCE(p.data_type, ''))
	FROM information_schema.routines r
	LEFT JOIN information_schema.parameters p
		ON r.specific_name = p.specific_name
	WHERE r.routine_schema = $1
	GROUP BY r.routine_name, r.routine_type, r.data_type, r.routine_definition
	ORDER BY r.routine_name
`

// GetFunctions returns the functions and procedures defined in a schema.
func (c *Catalog) GetFunctions(ctx context.Context, schema string) ([]model.Function, error) {
	return query(ctx, c.db, functionsQuery, []any{schema}, func(rows *sql.Rows) (model.Function, error) {
		var f model.Function
		var params pq.StringArray
		err := rows.Scan(&f.FunctionName, &f.RoutineType, &f.ReturnType, &f.RoutineDefinition, &params)
		f.Parameters = []string(params)
		return f, err
	})
}

const triggersQuery = `
	SELECT trigger_name, event_manipulation as event, action_timing as timing, action_statement as action
	FROM information_schema.triggers
	WHERE event_object_schema = $1
	  AND event_object_table = $2
	ORDER BY trigger_name
`

// GetTriggers returns the triggers defined on a table.
func (c *Catalog) GetTriggers(ctx context.Context, schema, table string) ([]model.Trigger, error) {
	return query(ctx, c.db, triggersQuery, []any{schema, table}, func(rows *sql.Rows) (model.Trigger, error) {
		var t model.Trigger
		err := rows.Scan(&t.TriggerName, &t.Event, &t.Timing, &t.Action)
		return t, err
	})
}

const extensionsQuery = `
	SELECT extname as extension_name, extversion as version, n.nspname as schema
	FROM pg_extension e
	JOIN pg_namespace n ON n.oid = e.extnamespace
	ORDER BY extname
`

// GetExtensions returns the PostgreSQL extensions installed on the server.
func (c *Catalog) GetExtensions(ctx context.Context) ([]model.Extension, error) {
	return query(ctx, c.db, extensionsQuery, nil, func(rows *sql.Rows) (model.Extension, error) {
		var e model.Extension
		err := rows.Scan(&e.ExtensionName, &e.Version, &e.Schema)
		return e, err
	})
}

const specialTypesQuery = `
	SELECT
		c.table_name,
		c.column_name,
		c.data_type,
		c.udt_name,
		CASE
			WHEN c.data_type LIKE '%json%' THEN 'JSON'
			WHEN c.data_type = 'ARRAY' THEN 'ARRAY'
			WHEN c.data_type = 'USER-DEFINED' THEN 'ENUM/COMPOSITE'
			WHEN c.data_type = 'bytea' THEN 'BYTEA'
			WHEN c.data_type = 'uuid' THEN 'UUID'
			ELSE 'OTHER'
		END as special_type_category
	FROM information_schema.columns c
	WHERE c.table_schema = $1
	  AND (c.data_type IN ('json', 'jsonb', 'bytea', 'uuid', 'ARRAY', 'USER-DEFINED')
	       OR c.data_type LIKE '%json%')
	ORDER BY c.table_name, c.column_name
`

// AnalyzeSpecialTypes returns the columns in a schema that use a special
// PostgreSQL type (JSON, array, enum/composite, bytea, uuid), grouped by
// category.
func (c *Catalog) AnalyzeSpecialTypes(ctx context.Context, schema string) (model.SpecialTypes, error) {
	details, err := query(ctx, c.db, specialTypesQuery, []any{schema}, func(rows *sql.Rows) (model.SpecialTypeDetail, error) {
		var d model.SpecialTypeDetail
		err := rows.Scan(&d.TableName, &d.ColumnName, &d.DataType, &d.UDTName, &d.SpecialTypeCategory)
		return d, err
	})
	if err != nil {
		return model.SpecialTypes{}, err
	}

	summary := map[string][]string{}
	for _, d := range details {
		summary[d.SpecialTypeCategory] = append(summary[d.SpecialTypeCategory], d.TableName+"."+d.ColumnName)
	}

	return model.SpecialTypes{Details: details, Summary: summary}, nil
}

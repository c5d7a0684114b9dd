// SPDX-License-Identifier: Apache-2.0

package typemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/typemap"
)

func intPtr(i int) *int { return &i }

func TestMapType(t *testing.T) {
	tests := []struct {
		Name             string
		PgType           string
		UDTName          string
		CharMax          *int
		NumericPrecision *int
		NumericScale     *int
		ExpectedType     string
	}{
		{
			Name:         "smallint",
			PgType:       "smallint",
			ExpectedType: "NUMBER(5,0)",
		},
		{
			Name:         "bigserial",
			PgType:       "bigserial",
			ExpectedType: "NUMBER(19,0)",
		},
		{
			Name:             "numeric with precision and scale",
			PgType:           "numeric",
			NumericPrecision: intPtr(10),
			NumericScale:     intPtr(2),
			ExpectedType:     "NUMBER(10,2)",
		},
		{
			Name:             "numeric with precision only",
			PgType:           "numeric",
			NumericPrecision: intPtr(10),
			ExpectedType:     "NUMBER(10,0)",
		},
		{
			Name:         "numeric with no precision",
			PgType:       "numeric",
			ExpectedType: "NUMBER(38,0)",
		},
		{
			Name:         "varchar with length",
			PgType:       "character varying",
			CharMax:      intPtr(255),
			ExpectedType: "VARCHAR(255)",
		},
		{
			Name:         "varchar exceeding snowflake max",
			PgType:       "character varying",
			CharMax:      intPtr(20000000),
			ExpectedType: "VARCHAR",
		},
		{
			Name:         "varchar with no length",
			PgType:       "varchar",
			ExpectedType: "VARCHAR",
		},
		{
			Name:         "text",
			PgType:       "text",
			ExpectedType: "VARCHAR",
		},
		{
			Name:         "array",
			PgType:       "integer[]",
			ExpectedType: "VARIANT",
		},
		{
			Name:         "jsonb",
			PgType:       "jsonb",
			ExpectedType: "VARIANT",
		},
		{
			Name:         "uuid",
			PgType:       "uuid",
			ExpectedType: "VARCHAR(36)",
		},
		{
			Name:         "user-defined enum",
			PgType:       "USER-DEFINED",
			UDTName:      "mood",
			ExpectedType: "VARCHAR",
		},
		{
			Name:         "unknown type",
			PgType:       "some_future_type",
			ExpectedType: "VARCHAR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			m := typemap.MapType(tt.PgType, tt.UDTName, tt.CharMax, tt.NumericPrecision, tt.NumericScale)
			assert.Equal(t, tt.ExpectedType, m.SnowflakeType)
			assert.NotEmpty(t, m.Rationale)
		})
	}
}

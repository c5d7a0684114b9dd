// SPDX-License-Identifier: Apache-2.0

// Package typemap maps PostgreSQL column types to their Snowflake
// equivalents. It is a pure function package: no connections, no logging,
// no mutable state. Callers log the returned rationale if they choose to.
package typemap

import (
	"fmt"
	"strings"
)

// maxSnowflakeVarchar is the largest VARCHAR length Snowflake accepts.
const maxSnowflakeVarchar = 16777216

// staticMap covers the PostgreSQL types with a single, context-free
// Snowflake equivalent.
var staticMap = map[string]string{
	"smallint":   "NUMBER(5,0)",
	"integer":    "NUMBER(10,0)",
	"bigint":     "NUMBER(19,0)",
	"decimal":    "NUMBER",
	"numeric":    "NUMBER",
	"real":       "FLOAT",
	"double precision": "FLOAT",
	"smallserial": "NUMBER(5,0)",
	"serial":      "NUMBER(10,0)",
	"bigserial":   "NUMBER(19,0)",
	"money":       "NUMBER(19,4)",

	"character varying": "VARCHAR",
	"varchar":           "VARCHAR",
	"character":         "CHAR",
	"char":              "CHAR",
	"text":              "VARCHAR",

	"bytea": "BINARY",

	"timestamp without time zone": "TIMESTAMP_NTZ",
	"timestamp with time zone":    "TIMESTAMP_TZ",
	"timestamp":                   "TIMESTAMP_NTZ",
	"timestamptz":                 "TIMESTAMP_TZ",
	"date":                        "DATE",
	"time without time zone":      "TIME",
	"time with time zone":         "TIME",
	"time":                        "TIME",
	"interval":                    "VARCHAR",

	"boolean": "BOOLEAN",
	"bool":    "BOOLEAN",

	"json":  "VARIANT",
	"jsonb": "VARIANT",

	"uuid": "VARCHAR(36)",

	"inet":    "VARCHAR(45)",
	"cidr":    "VARCHAR(45)",
	"macaddr": "VARCHAR(17)",

	"point":   "VARCHAR",
	"line":    "VARCHAR",
	"lseg":    "VARCHAR",
	"box":     "VARCHAR",
	"path":    "VARCHAR",
	"polygon": "VARCHAR",
	"circle":  "VARCHAR",

	"ARRAY":        "VARIANT",
	"USER-DEFINED": "VARCHAR",
}

// Mapping is the result of mapping one PostgreSQL type.
type Mapping struct {
	SnowflakeType string
	Rationale     string
}

// MapType maps a single PostgreSQL column type to a Snowflake type,
// returning a rationale string suitable for the mapping_decisions.yml
// artifact. charMax, numericPrecision and numericScale may be nil when the
// source column has no such attribute.
func MapType(pgType, udtName string, charMax, numericPrecision, numericScale *int) Mapping {
	pgTypeLower := strings.ToLower(pgType)

	if strings.Contains(pgType, "[]") || pgType == "ARRAY" {
		return Mapping{
			SnowflakeType: "VARIANT",
			Rationale:     "PostgreSQL array mapped to VARIANT for semi-structured storage",
		}
	}

	if pgTypeLower == "numeric" || pgTypeLower == "decimal" {
		var sfType string
		switch {
		case numericPrecision != nil && numericScale != nil:
			sfType = fmt.Sprintf("NUMBER(%d,%d)", *numericPrecision, *numericScale)
		case numericPrecision != nil:
			sfType = fmt.Sprintf("NUMBER(%d,0)", *numericPrecision)
		default:
			sfType = "NUMBER(38,0)"
		}
		return Mapping{
			SnowflakeType: sfType,
			Rationale:     fmt.Sprintf("PostgreSQL %s with precision/scale preserved", pgType),
		}
	}

	switch pgTypeLower {
	case "character varying", "varchar", "character", "char":
		if charMax != nil {
			if *charMax > maxSnowflakeVarchar {
				return Mapping{
					SnowflakeType: "VARCHAR",
					Rationale:     fmt.Sprintf("PostgreSQL %s(%d) exceeds Snowflake max; using VARCHAR(16777216)", pgType, *charMax),
				}
			}
			return Mapping{
				SnowflakeType: fmt.Sprintf("VARCHAR(%d)", *charMax),
				Rationale:     fmt.Sprintf("PostgreSQL %s with length preserved", pgType),
			}
		}
		return Mapping{
			SnowflakeType: "VARCHAR",
			Rationale:     fmt.Sprintf("PostgreSQL %s mapped to VARCHAR", pgType),
		}
	case "text":
		return Mapping{SnowflakeType: "VARCHAR", Rationale: "PostgreSQL TEXT mapped to VARCHAR (unlimited)"}
	}

	if sfType, ok := staticMap[pgTypeLower]; ok {
		return Mapping{
			SnowflakeType: sfType,
			Rationale:     fmt.Sprintf("Standard mapping: %s -> %s", pgType, sfType),
		}
	}

	if pgType == "USER-DEFINED" {
		return Mapping{
			SnowflakeType: "VARCHAR",
			Rationale:     fmt.Sprintf("User-defined type (%s) mapped to VARCHAR; consider adding validation", udtName),
		}
	}

	return Mapping{
		SnowflakeType: "VARCHAR",
		Rationale:     fmt.Sprintf("Unknown type %s mapped to VARCHAR (needs review)", pgType),
	}
}

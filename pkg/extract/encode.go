// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"fmt"
	"strings"
	"time"
)

// encodeCSVField renders a single scanned value as a CSV field, tagging it
// by kind the way the value needs to be handled: NULL becomes an empty
// field, JSON/JSONB columns are re-emitted as a quoted JSON literal, text
// values are quote-escaped, and everything else (bool, numeric, time.Time)
// is formatted with its natural string representation.
func encodeCSVField(value any, dbType string) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case []byte:
		// JSON/JSONB columns arrive as their already-serialized text form;
		// quoting is all they need, same as any other text value.
		return quoteCSV(string(v))
	case string:
		return quoteCSV(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case bool:
		if v {
			return "t"
		}
		return "f"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quoteCSV(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `""`)
	return `"` + escaped + `"`
}

// encodeParquetString renders a value as the UTF8 string stored in the
// Parquet chunk's single-type-per-column representation (every column is
// written as an optional string; downstream COPY INTO relies on Snowflake's
// own type coercion during the load, exactly as the CSV path does).
func encodeParquetString(value any, dbType string) (string, bool) {
	if value == nil {
		return "", false
	}
	switch v := value.(type) {
	case []byte:
		return string(v), true
	case string:
		return v, true
	case time.Time:
		return v.Format(time.RFC3339Nano), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

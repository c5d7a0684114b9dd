// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCSVField(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		dbType   string
		expected string
	}{
		{"null", nil, "int4", ""},
		{"text", "hello", "text", `"hello"`},
		{"text with quote", `say "hi"`, "text", `"say ""hi"""`},
		{"json bytes", []byte(`{"a":1}`), "JSONB", `"{""a"":1}"`},
		{"bool true", true, "bool", "t"},
		{"bool false", false, "bool", "f"},
		{"int", int64(42), "int8", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeCSVField(tt.value, tt.dbType))
		})
	}
}

func TestEncodeParquetString(t *testing.T) {
	s, present := encodeParquetString(nil, "int4")
	assert.False(t, present)
	assert.Equal(t, "", s)

	s, present = encodeParquetString("hi", "text")
	assert.True(t, present)
	assert.Equal(t, "hi", s)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, present = encodeParquetString(ts, "timestamp")
	assert.True(t, present)
	assert.Equal(t, ts.Format(time.RFC3339Nano), s)
}

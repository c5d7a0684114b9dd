// SPDX-License-Identifier: Apache-2.0

package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := "CREATE SCHEMA a;\n\nCREATE TABLE a.b (id int);  ; CREATE TABLE a.c (id int)"
	stmts := splitStatements(script)
	assert.Equal(t, []string{
		"CREATE SCHEMA a",
		"CREATE TABLE a.b (id int)",
		"CREATE TABLE a.c (id int)",
	}, stmts)
}

func TestSplitStatementsEmpty(t *testing.T) {
	assert.Empty(t, splitStatements("   ;  ; "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 100))
	assert.Equal(t, "abc...", truncate("abcdefgh", 3))
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected int64
		ok       bool
	}{
		{"int64", int64(42), 42, true},
		{"float64", float64(7), 7, true},
		{"bytes", []byte("123"), 123, true},
		{"unsupported", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := toInt64(tt.value)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, n)
			}
		})
	}
}

func TestIsTransientSnowflakeError(t *testing.T) {
	assert.False(t, isTransientSnowflakeError(nil))
	assert.True(t, isTransientSnowflakeError(assert.AnError))
}

// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPatterns(t *testing.T) {
	assert.Equal(t, `"password": "***REDACTED***"`, redact(`"password": "hunter2"`))
	assert.Equal(t, `"access_token": "***REDACTED***"`, redact(`"access_token": "abc.def.ghi"`))
	assert.Equal(t, "host=db password=***REDACTED***", redact("host=db password=hunter2"))
	assert.Equal(t, "url?token=***REDACTED***", redact("url?token=abc123"))
}

func TestLoggerRedactsFieldsAndMessage(t *testing.T) {
	l := New("run-1")
	l.Info("analyze", "connecting with password=hunter2", map[string]any{"dsn": "password=hunter2"})

	entries := l.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "connecting with password=***REDACTED***", entries[0].Message)
	assert.Equal(t, "password=***REDACTED***", entries[0].Fields["dsn"])
}

func TestRenderNDJSON(t *testing.T) {
	l := New("run-2")
	l.Info("plan", "generated artifacts", map[string]any{"count": 7})
	l.Error("execute", "load failed", nil)

	out, err := l.RenderNDJSON()
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"run_id":"run-2"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
}

// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/internal/config"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
postgres:
  host: localhost
  database: mydb
  username: admin
  password: secret
snowflake:
  account: acme
`), 0o644))

	v := config.New()
	req, err := config.Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", req.Postgres.Host)
	assert.Equal(t, 5432, req.Postgres.Port)
	assert.Equal(t, "CSV", string(req.Preferences.Format))
	assert.Equal(t, 4, req.Preferences.Parallelism)
	assert.False(t, req.Control.Confirm)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PGSFMIG_POSTGRES_HOST", "envhost")

	v := config.New()
	req, err := config.Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, "envhost", req.Postgres.Host)
}

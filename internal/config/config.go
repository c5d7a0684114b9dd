// SPDX-License-Identifier: Apache-2.0

// Package config loads a migration Request from a YAML file, environment
// variables (PGSFMIG_ prefixed), and bound command-line flags, the way
// the teacher's cmd/flags package layers viper over cobra flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

const envPrefix = "PGSFMIG"

// New builds a viper instance configured with this repo's env prefix and
// key-replacement rule (PGSFMIG_POSTGRES_HOST -> postgres.host).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func applyDefaults(v *viper.Viper) {
	defaults := model.DefaultPreferences()
	v.SetDefault("preferences.format", string(defaults.Format))
	v.SetDefault("preferences.max_chunk_mb", defaults.MaxChunkMB)
	v.SetDefault("preferences.parallelism", defaults.Parallelism)
	v.SetDefault("preferences.use_identity_for_serial", defaults.UseIdentityForSerial)
	v.SetDefault("preferences.case_style", string(defaults.CaseStyle))
	v.SetDefault("preferences.dry_run", false)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("control.confirm", false)

	// Unmarshal only sees keys viper already knows, so the string fields
	// are registered here for AutomaticEnv to fill from PGSFMIG_* variables.
	for _, key := range []string{
		"postgres.host", "postgres.database", "postgres.username", "postgres.password",
		"snowflake.account", "snowflake.warehouse", "snowflake.database", "snowflake.default_role",
		"snowflake.schema", "snowflake.stage", "snowflake.file_format",
		"auth.access_token", "control.run_id",
	} {
		v.SetDefault(key, "")
	}
}

// BindFlags binds a cobra/pflag flag set's "request" flags onto v, so a
// flag passed on the command line overrides both the config file and the
// environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"postgres-host":       "postgres.host",
		"postgres-port":       "postgres.port",
		"postgres-database":   "postgres.database",
		"postgres-username":   "postgres.username",
		"postgres-password":   "postgres.password",
		"snowflake-account":   "snowflake.account",
		"snowflake-warehouse": "snowflake.warehouse",
		"snowflake-database":  "snowflake.database",
		"snowflake-schema":    "snowflake.schema",
		"snowflake-stage":     "snowflake.stage",
		"dry-run":             "preferences.dry_run",
		"confirm":             "control.confirm",
		"run-id":              "control.run_id",
	}

	for flagName, key := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %q to %q: %w", flagName, key, err)
		}
	}
	return nil
}

// Load reads a YAML request file (if path is non-empty), layers
// environment variables and bound flags on top, and unmarshals the result
// into a Request.
func Load(v *viper.Viper, path string) (model.Request, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return model.Request{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var req model.Request
	err := v.Unmarshal(&req, func(c *mapstructure.DecoderConfig) { c.TagName = "yaml" })
	if err != nil {
		return model.Request{}, fmt.Errorf("unmarshaling request: %w", err)
	}

	return req, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds-snapshot-copy/internal/display"
	apperrors "rds-snapshot-copy/internal/errors"
	"rds-snapshot-copy/internal/resolver"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "instance", cfg.DBType)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("db_identifier", "my-cluster")
	v.Set("db_type", "cluster")
	v.Set("region", "eu-west-1")
	v.Set("timeout", "45s")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "my-cluster", cfg.DBIdentifier)
	assert.Equal(t, resolver.DBTypeCluster, cfg.ResolvedDBType())
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	// Unset fields keep defaults.
	assert.Equal(t, display.FormatTable, cfg.ResolvedFormat())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"cluster type", func(c *Config) { c.DBType = "cluster" }, true},
		{"bad db type", func(c *Config) { c.DBType = "shard" }, false},
		{"bad format", func(c *Config) { c.Format = "yaml" }, false},
		{"verbose and quiet", func(c *Config) { c.Verbose = true; c.Quiet = true }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"valid account id", func(c *Config) { c.AccountIDs = []string{"111122223333"} }, true},
		{"short account id", func(c *Config) { c.AccountIDs = []string{"1234"} }, false},
		{"non-numeric account id", func(c *Config) { c.AccountIDs = []string{"11112222333x"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		})
	}
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteStarter(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "db_type: instance")
	assert.Contains(t, string(data), "timeout: 30s")

	// The starter is loadable.
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, resolver.DBTypeInstance, cfg.ResolvedDBType())
}

func TestWriteStarterRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	assert.Error(t, WriteStarter(path))
}

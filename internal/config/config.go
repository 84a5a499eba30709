// Package config holds the run configuration assembled from the config
// file and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"rds-snapshot-copy/internal/display"
	apperrors "rds-snapshot-copy/internal/errors"
	"rds-snapshot-copy/internal/resolver"
)

// Config is the full run configuration
type Config struct {
	// Target account/region
	Region  string `mapstructure:"region" yaml:"region"`
	Profile string `mapstructure:"profile" yaml:"profile"`

	// Explicit identifiers; empty fields are resolved interactively
	DBIdentifier string `mapstructure:"db_identifier" yaml:"db_identifier"`
	KMSKeyID     string `mapstructure:"kms_key_id" yaml:"kms_key_id"`
	DBType       string `mapstructure:"db_type" yaml:"db_type"`
	SnapshotID   string `mapstructure:"snapshot_id" yaml:"snapshot_id"`

	// Accounts to check restore authorization for, from positional args
	AccountIDs []string `mapstructure:"account_ids" yaml:"account_ids"`

	// Output and logging
	Verbose bool          `mapstructure:"verbose" yaml:"verbose"`
	Quiet   bool          `mapstructure:"quiet" yaml:"quiet"`
	NoColor bool          `mapstructure:"no_color" yaml:"no_color"`
	Format  string        `mapstructure:"format" yaml:"format"`
	LogFile string        `mapstructure:"log_file" yaml:"log_file"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Default returns the configuration defaults
func Default() *Config {
	return &Config{
		DBType:  string(resolver.DBTypeInstance),
		Format:  string(display.FormatTable),
		Timeout: 30 * time.Second,
	}
}

// Load unmarshals the merged viper state (config file + bound flags).
// Callers validate after filling in any remaining fields.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field values and cross-field constraints
func (c *Config) Validate() error {
	if _, err := resolver.ParseDBType(c.DBType); err != nil {
		return err
	}
	if _, err := display.ParseFormat(c.Format); err != nil {
		return apperrors.NewAppError(apperrors.ErrorTypeValidation, err.Error(), nil)
	}
	if c.Verbose && c.Quiet {
		return apperrors.NewAppError(apperrors.ErrorTypeValidation,
			"verbose and quiet are mutually exclusive", nil)
	}
	if c.Timeout <= 0 {
		return apperrors.NewAppError(apperrors.ErrorTypeValidation,
			"timeout must be positive", nil)
	}
	for _, account := range c.AccountIDs {
		if len(account) != 12 {
			return apperrors.NewAppError(apperrors.ErrorTypeValidation,
				fmt.Sprintf("invalid account id %q: must be 12 digits", account), nil)
		}
		for _, r := range account {
			if r < '0' || r > '9' {
				return apperrors.NewAppError(apperrors.ErrorTypeValidation,
					fmt.Sprintf("invalid account id %q: must be 12 digits", account), nil)
			}
		}
	}
	return nil
}

// ResolvedDBType returns the validated db-type enum. Validate must have
// passed.
func (c *Config) ResolvedDBType() resolver.DBType {
	dbType, _ := resolver.ParseDBType(c.DBType)
	return dbType
}

// ResolvedFormat returns the validated output format. Validate must have
// passed.
func (c *Config) ResolvedFormat() display.Format {
	format, _ := display.ParseFormat(c.Format)
	return format
}

const starterHeader = `# rds-snapshot-copy configuration.
# Command-line flags override any value set here.
`

// WriteStarter writes a commented starter configuration file. It refuses to
// overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	defaults := Default()
	starter := map[string]interface{}{
		"region":        "",
		"profile":       "",
		"db_identifier": "",
		"kms_key_id":    "",
		"db_type":       defaults.DBType,
		"snapshot_id":   "",
		"format":        defaults.Format,
		"timeout":       defaults.Timeout.String(),
	}
	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("failed to render starter config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(starterHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

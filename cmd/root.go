package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rds-snapshot-copy/internal/application"
	"rds-snapshot-copy/internal/config"
)

var cfgFile string

// CLI flag variables
var (
	// Explicit identifiers
	dbIdentifier string
	kmsKeyID     string
	dbType       string
	snapshotID   string

	// Target account/region
	region  string
	profile string

	// Operation flags
	verbose bool
	quiet   bool
	timeout time.Duration
	logFile string

	// Display flags
	noColor      bool
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rds-snapshot-copy [account-id...]",
	Short: "Resolve the RDS resource, KMS key and snapshot for a snapshot copy",
	Long: `rds-snapshot-copy prepares the three parameters a snapshot-copy or
restore operation needs: a database resource (instance or cluster), a
customer-managed KMS key for snapshot encryption, and the snapshot to copy.

Identifiers supplied as flags are used as-is. Anything left unspecified is
discovered from AWS and offered as an interactive choice, so a full
resolution needs no manual console lookups. AWS-managed keys (aliases under
"alias/aws") are never offered.

Positional account ids, when given, are checked against the resolved
snapshot's restore authorization and reported.

Examples:
  # Fully interactive resolution over database clusters
  rds-snapshot-copy --db-type=cluster

  # Explicit resource, choose only key and snapshot
  rds-snapshot-copy --db-identifier=prod-cluster --db-type=cluster

  # Non-interactive scripting: all identifiers explicit, compact output
  rds-snapshot-copy -d prod-cluster -t cluster -k alias/prod -s snap-1 --format=compact

  # Check whether two accounts may already restore the chosen snapshot
  rds-snapshot-copy --db-type=cluster 111122223333 444455556666`,
	Args: cobra.ArbitraryArgs,
	RunE: runResolve,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Configuration file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rds-snapshot-copy.yaml)")

	// Explicit identifier flags
	rootCmd.Flags().StringVarP(&dbIdentifier, "db-identifier", "d", "", "database instance or cluster identifier")
	rootCmd.Flags().StringVarP(&kmsKeyID, "kms-key-id", "k", "", "KMS key id for snapshot encryption")
	rootCmd.Flags().StringVarP(&dbType, "db-type", "t", "instance", "resource type to resolve (instance, cluster)")
	rootCmd.Flags().StringVarP(&snapshotID, "snapshot-id", "s", "", "snapshot identifier to copy")

	// Target flags
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (default from environment/shared config)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS shared config profile")

	// Operation flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout for AWS calls")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file in addition to stderr")

	// Display flags
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format (table, json, compact)")

	// Bind flags to viper
	viper.BindPFlag("db_identifier", rootCmd.Flags().Lookup("db-identifier"))
	viper.BindPFlag("kms_key_id", rootCmd.Flags().Lookup("kms-key-id"))
	viper.BindPFlag("db_type", rootCmd.Flags().Lookup("db-type"))
	viper.BindPFlag("snapshot_id", rootCmd.Flags().Lookup("snapshot-id"))

	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

// runResolve is the main execution function for the CLI
func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	app, err := application.NewApplication(cfg)
	if err != nil {
		return err
	}

	if err := app.Run(cmd.Context()); err != nil {
		// The application already surfaced the user-facing message.
		os.Exit(1)
	}

	return nil
}

// buildConfig builds the run configuration from the config file, CLI flags
// and positional account ids
func buildConfig(accountIDs []string) (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	cfg.AccountIDs = accountIDs
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rds-snapshot-copy" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rds-snapshot-copy")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("RDS_SNAPSHOT_COPY")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, bt, gc, gv string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s, %s)", v, bt, gc, gv)
}

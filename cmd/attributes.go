package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rds-snapshot-copy/internal/awsconfig"
	"rds-snapshot-copy/internal/config"
	"rds-snapshot-copy/internal/display"
	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/rds"
)

// attributesCmd prints a snapshot's attribute map directly, without running
// a full resolution
var attributesCmd = &cobra.Command{
	Use:   "attributes <snapshot-id>",
	Short: "Show the sharing attributes of a snapshot",
	Long: `Show a snapshot's attribute map, including the "restore" attribute
listing the account ids authorized to copy or restore it.

Examples:
  rds-snapshot-copy attributes my-snapshot
  rds-snapshot-copy attributes my-snapshot --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runAttributes,
}

func init() {
	rootCmd.AddCommand(attributesCmd)
}

func runAttributes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logLevel := logging.LogLevelNormal
	if cfg.Quiet {
		logLevel = logging.LogLevelQuiet
	} else if cfg.Verbose {
		logLevel = logging.LogLevelVerbose
	}
	logger, err := logging.NewLogger(logging.Config{Level: logLevel, LogFile: cfg.LogFile})
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.Load(cmd.Context(), awsconfig.Options{
		Region:  cfg.Region,
		Profile: cfg.Profile,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return err
	}

	snapshotID := rds.SnapshotIDFromChoice(args[0])
	attributes, err := rds.NewService(awsCfg, logger).DescribeSnapshotAttributes(cmd.Context(), snapshotID)
	if err != nil {
		return err
	}

	return display.NewService(cfg.ResolvedFormat(), cfg.NoColor).RenderAttributes(snapshotID, attributes)
}

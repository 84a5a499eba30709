package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rds-snapshot-copy/internal/config"
)

// initCmd writes a starter configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a commented starter configuration file. The default location is
$HOME/.rds-snapshot-copy.yaml; use --config to choose another path.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		path = filepath.Join(home, ".rds-snapshot-copy.yaml")
	}

	if err := config.WriteStarter(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Wrote starter config to", path)
	return nil
}

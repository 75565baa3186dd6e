// Package cli implements taskflowctl, the operator command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	prefsPath string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "taskflowctl",
		Short: "TaskFlow operator tool",
		Long: `taskflowctl runs migrations, prints SLA views for a user and follows them live.

Database and Redis settings come from the same environment (or .env file) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "Preferences file (default ~/.taskflow/preferences.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(prefsCmd)
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dbadapter "taskflow/internal/adapter/db"
	"taskflow/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().String("path", "", "Migrations directory (default MIGRATIONS_PATH)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = cfg.MigrationsPath
	}

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to mysql: %w", err)
	}
	defer db.Close()

	if err := dbadapter.Migrate(db, path, newLogger()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
	return nil
}

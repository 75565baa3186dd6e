// Package dbtest provisions throwaway MySQL databases for integration tests.
package dbtest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	dbadapter "taskflow/internal/adapter/db"
)

// Params always include clientFoundRows so UPDATE reports matched rows.
const defaultParams = "parseTime=true&multiStatements=true&clientFoundRows=true"

// Database is a migrated schema that is dropped when the test ends.
type Database struct {
	DB *sqlx.DB

	admin *sqlx.DB
	name  string
}

// Open creates <MYSQL_DATABASE>_<suffix>_test, applies every migration and
// registers cleanup on t. The test is skipped when MySQL is unreachable.
func Open(t testing.TB, suffix string) *Database {
	t.Helper()

	host := envOrDefault("MYSQL_HOST", "127.0.0.1")
	port := envOrDefault("MYSQL_PORT", "3306")
	user := envOrDefault("MYSQL_ROOT_USER", "root")
	password := envOrDefault("MYSQL_ROOT_PASSWORD", "root")
	params := envOrDefault("MYSQL_PARAMS", defaultParams)
	name := envOrDefault("MYSQL_DATABASE", "taskflow") + "_" + suffix + "_test"

	admin, err := sqlx.Connect("mysql", dsn(user, password, host, port, "", params))
	if err != nil {
		t.Skipf("skipping integration test: could not connect to mysql: %v", err)
	}

	_, err = admin.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	require.NoError(t, err)

	db, err := sqlx.Connect("mysql", dsn(user, password, host, port, name, params))
	require.NoError(t, err)

	d := &Database{DB: db, admin: admin, name: name}
	t.Cleanup(d.drop(t))

	require.NoError(t, dbadapter.Migrate(db, MigrationsPath(t), nil))
	return d
}

// Reset empties every table, children first.
func (d *Database) Reset(t testing.TB) {
	t.Helper()
	_, err := d.DB.Exec("DELETE FROM task_reports; DELETE FROM tasks; DELETE FROM users;")
	require.NoError(t, err)
}

func (d *Database) drop(t testing.TB) func() {
	return func() {
		require.NoError(t, d.DB.Close())
		if strings.HasSuffix(d.name, "_test") {
			_, err := d.admin.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", d.name))
			require.NoError(t, err)
		}
		require.NoError(t, d.admin.Close())
	}
}

// MigrationsPath is the absolute path of the repository's migrations.
func MigrationsPath(t testing.TB) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(thisFile), "..", "migrations")
}

// RepoRoot is the module root, for tests that need repository files.
func RepoRoot(t testing.TB) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))
}

func dsn(user, password, host, port, database, params string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, password, host, port, database, params)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskflow/internal/adapter/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage local preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

var prefsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print preferences as versioned JSON",
	RunE:  runPrefsExport,
}

var prefsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List preference keys with their values",
	RunE:  runPrefsKeys,
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsExportCmd)
	prefsCmd.AddCommand(prefsKeysCmd)
}

// now is replaced in tests.
var now = time.Now

func resolvePrefsPath() string {
	if prefsPath != "" {
		return prefsPath
	}
	return prefs.DefaultPath()
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	store, err := prefs.Open(resolvePrefsPath())
	if err != nil {
		return err
	}
	value, err := store.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	store, err := prefs.Open(resolvePrefsPath())
	if err != nil {
		return err
	}
	if err := store.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func runPrefsExport(cmd *cobra.Command, args []string) error {
	store, err := prefs.Open(resolvePrefsPath())
	if err != nil {
		return err
	}
	data, err := store.ExportJSON(now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runPrefsKeys(cmd *cobra.Command, args []string) error {
	store, err := prefs.Open(resolvePrefsPath())
	if err != nil {
		return err
	}
	for _, key := range prefs.Keys() {
		value, err := store.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	}
	return nil
}

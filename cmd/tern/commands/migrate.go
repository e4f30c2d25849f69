package commands

import (
	"strings"

	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate [only-versions]",
	Short: "Apply pending migrations",
	Long: "Apply all migrations after the current version. With an argument, " +
		"only the named versions (comma, space, or semicolon separated) are " +
		"applied from the missing set.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		var only []string
		if len(args) == 1 {
			only = splitVersions(args[0])
		}
		applied, err := rt.Migrator.MigrateUp(cmd.Context(), only)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			common.LogInfo("no pending migrations")
		}
		return nil
	},
}

// splitVersions splits a version list on commas, spaces, and semicolons.
func splitVersions(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
}

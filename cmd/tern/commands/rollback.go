package commands

import (
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/cobra"
)

var RollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Run the down of the newest applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		version, err := rt.Migrator.Rollback(cmd.Context())
		if err != nil {
			return err
		}
		if version == "" {
			common.LogInfo("nothing to roll back")
		}
		return nil
	},
}

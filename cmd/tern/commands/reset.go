package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/cobra"
)

var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Roll back every applied migration, after confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Roll back all migrations? (y/N) ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			common.LogInfo("reset aborted")
			return nil
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		rolled, err := rt.Migrator.Reset(cmd.Context())
		if err != nil {
			return err
		}
		common.LogInfo("reset complete", "rolled_back", len(rolled))
		return nil
	},
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Echo the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadConfig()
		if err != nil {
			return err
		}
		echo := *doc
		if echo.DB.Password != "" {
			echo.DB.Password = "***"
		}
		out, err := yaml.Marshal(&echo)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

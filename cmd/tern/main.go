package main

import (
	"os"

	"github.com/loykin/ternmigrate/cmd/tern/commands"
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "tern",
	Short:         "Apply declarative schema migrations against MySQL, PostgreSQL, SQL Server, or H2",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	v := viper.GetViper()
	v.SetDefault("config", "./tern.yaml")

	// Environment variable support: TERN_CONFIG, TERN_DRYRUN, ...
	v.SetEnvPrefix("TERN")
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to the configuration yaml")
	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.MigrateCmd)
	rootCmd.AddCommand(commands.RollbackCmd)
	rootCmd.AddCommand(commands.ResetCmd)
	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.VersionsCmd)
	rootCmd.AddCommand(commands.MissingCmd)
	rootCmd.AddCommand(commands.NewCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		common.LogError("command failed", err)
		os.Exit(1)
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the highest recorded version",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		v, err := rt.Migrator.CurrentVersion()
		if err != nil {
			return err
		}
		if v == "" {
			fmt.Println("no migrations applied")
			return nil
		}
		fmt.Println(v)
		return nil
	},
}

var VersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Print all recorded versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		vs, err := rt.Migrator.Versions()
		if err != nil {
			return err
		}
		for _, v := range vs {
			fmt.Println(v)
		}
		return nil
	},
}

var MissingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Print versions present as files but absent from the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		vs, err := rt.Migrator.Missing()
		if err != nil {
			return err
		}
		for _, v := range vs {
			fmt.Println(v)
		}
		return nil
	},
}

package commands

import (
	"fmt"

	"github.com/loykin/ternmigrate/internal/common"
	"github.com/loykin/ternmigrate/internal/constants"
	"github.com/loykin/ternmigrate/internal/dbconn"
	"github.com/loykin/ternmigrate/internal/util"
	"github.com/spf13/cobra"
)

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the version-tracking table (and the database, where supported)",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadConfig()
		if err != nil {
			return err
		}
		if err := ensureDatabase(&doc.DB); err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.Migrator.Init(); err != nil {
			return err
		}
		common.LogInfo("version table ready", "table", doc.VersionTable)
		return nil
	},
}

// ensureDatabase creates the target database through a server-level
// connection on the backends that allow it.
func ensureDatabase(cfg *dbconn.Config) error {
	switch util.TrimAndLower(cfg.Subprotocol) {
	case constants.SubprotocolMySQL:
		db, err := cfg.ConnectServer()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.Database))
		return err
	case constants.SubprotocolPostgreSQL:
		db, err := cfg.ConnectServer()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		var n int
		err = db.QueryRow("SELECT COUNT(*) FROM pg_database WHERE datname = $1", cfg.Database).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database))
		}
		return err
	default:
		common.LogDebug("database creation not supported, skipping", "subprotocol", cfg.Subprotocol)
		return nil
	}
}

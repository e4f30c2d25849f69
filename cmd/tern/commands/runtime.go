// Package commands implements the tern subcommands.
package commands

import (
	"database/sql"
	"os"

	"github.com/loykin/ternmigrate"
	"github.com/loykin/ternmigrate/cmd/tern/config"
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/viper"
)

// runtime bundles the state every subcommand needs: parsed configuration,
// an open connection, and the bound migrator.
type runtime struct {
	Config   *config.ConfigDoc
	DB       *sql.DB
	Migrator *ternmigrate.Migrator
}

func (r *runtime) Close() {
	if r.DB != nil {
		_ = r.DB.Close()
	}
}

// loadConfig reads the configured file and installs the process logger.
func loadConfig() (*config.ConfigDoc, error) {
	doc, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	common.SetDefaultLogger(doc.NewLogger())
	return doc, nil
}

// newRuntime connects to the target database and binds the migrator.
func newRuntime() (*runtime, error) {
	doc, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := doc.DB.Connect()
	if err != nil {
		return nil, err
	}
	m, err := ternmigrate.New(db, doc.DB.Subprotocol, doc.DB.Database, os.DirFS(doc.MigrationDir), doc.VersionTable)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &runtime{Config: doc, DB: db, Migrator: m}, nil
}

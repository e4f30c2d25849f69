// Package config loads the tern configuration file and derives the
// process logger from it.
package config

import (
	"fmt"

	"github.com/loykin/ternmigrate/internal/common"
	"github.com/loykin/ternmigrate/internal/constants"
	"github.com/loykin/ternmigrate/internal/dbconn"
	"github.com/spf13/viper"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`    // error, warn, info, debug
	Format string `mapstructure:"format" yaml:"format"`  // text, json, color
	Color  *bool  `mapstructure:"color" yaml:"color"`    // force/disable colorized output
}

type ConfigDoc struct {
	MigrationDir string        `mapstructure:"migration-dir" yaml:"migration-dir"`
	VersionTable string        `mapstructure:"version-table" yaml:"version-table"`
	DB           dbconn.Config `mapstructure:"db" yaml:"db"`
	Color        *bool         `mapstructure:"color" yaml:"color"`
	Logging      LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Load reads the configuration file and applies defaults.
func Load(path string) (*ConfigDoc, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var doc ConfigDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if doc.MigrationDir == "" {
		doc.MigrationDir = "migrations"
	}
	if doc.VersionTable == "" {
		doc.VersionTable = constants.DefaultVersionTable
	}
	return &doc, nil
}

// NewLogger builds the process logger from the logging section. The
// top-level color key is a convenience alias for logging.color.
func (c *ConfigDoc) NewLogger() *common.Logger {
	level := common.ParseLogLevel(c.Logging.Level)

	color := c.Logging.Color
	if color == nil {
		color = c.Color
	}

	switch c.Logging.Format {
	case "json":
		return common.NewJSONLogger(level)
	case "color":
		force := color != nil && *color
		return common.NewColorLogger(level, force)
	default:
		if color != nil && *color {
			return common.NewColorLogger(level, true)
		}
		return common.NewLogger(level)
	}
}

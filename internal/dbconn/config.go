// Package dbconn builds connections to the supported backends from
// configuration components. H2 has no native Go driver, so its
// configuration is accepted but Connect refuses it; library callers hand
// the runner an already-open *sql.DB instead.
package dbconn

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/loykin/ternmigrate/internal/constants"
	"github.com/loykin/ternmigrate/internal/util"
)

type Config struct {
	Subprotocol string `mapstructure:"subprotocol" yaml:"subprotocol"`
	Host        string `mapstructure:"host" yaml:"host"`
	Port        int    `mapstructure:"port" yaml:"port"`
	Database    string `mapstructure:"database" yaml:"database"`
	// Schema is the H2 database path or schema identifier.
	Schema   string `mapstructure:"schema" yaml:"schema"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// DSN resolves the sql driver name and data source for this configuration.
func (c *Config) DSN() (driver string, dsn string, err error) {
	util.TrimStructFields(c)
	switch util.TrimAndLower(c.Subprotocol) {
	case constants.SubprotocolMySQL:
		port := c.Port
		if port == 0 {
			port = constants.DefaultMySQLPort
		}
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.User, c.Password, c.Host, port, c.Database), nil
	case constants.SubprotocolPostgreSQL:
		port := c.Port
		if port == 0 {
			port = constants.DefaultPostgresPort
		}
		ssl := util.TrimWithDefault(c.SSLMode, constants.DefaultPostgresSSLMode)
		return "pgx", fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, port, c.Database, ssl), nil
	case constants.SubprotocolSQLServer:
		port := c.Port
		if port == 0 {
			port = constants.DefaultSQLServerPort
		}
		return "sqlserver", fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			c.User, c.Password, c.Host, port, c.Database), nil
	case constants.SubprotocolH2:
		return "", "", fmt.Errorf("h2: no native Go driver; open the connection yourself and use the library API")
	default:
		return "", "", fmt.Errorf("unsupported subprotocol %q", c.Subprotocol)
	}
}

// Connect opens the target database with pooled settings and verifies the
// connection with a ping.
func (c *Config) Connect() (*sql.DB, error) {
	driver, dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	return open(driver, dsn)
}

// ConnectServer opens a server-level connection without selecting the
// target database, for backends where init may create the database itself.
func (c *Config) ConnectServer() (*sql.DB, error) {
	target := *c
	switch util.TrimAndLower(c.Subprotocol) {
	case constants.SubprotocolMySQL:
		target.Database = ""
	case constants.SubprotocolPostgreSQL:
		target.Database = "postgres"
	default:
		return nil, fmt.Errorf("subprotocol %q has no server-level connection", c.Subprotocol)
	}
	driver, dsn, err := target.DSN()
	if err != nil {
		return nil, err
	}
	return open(driver, dsn)
}

func open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	db.SetMaxOpenConns(constants.DefaultMaxConnections)
	db.SetMaxIdleConns(constants.DefaultMaxIdleConns)
	db.SetConnMaxLifetime(constants.DefaultMaxConnLifetime)
	db.SetConnMaxIdleTime(constants.DefaultMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

package constants

import "time"

// Database Constants
const (
	// Default ports per backend
	DefaultPostgresPort  = 5432
	DefaultMySQLPort     = 3306
	DefaultSQLServerPort = 1433
	DefaultH2Port        = 9092

	DefaultPostgresSSLMode = "disable"

	// Connection pool settings
	DefaultMaxConnections = 25
	DefaultMaxIdleConns   = 5

	// DefaultVersionTable is the table tracking applied migration versions.
	DefaultVersionTable = "schema_versions"
)

// Time and Duration Constants
const (
	DefaultMaxConnLifetime = 5 * time.Minute
	DefaultMaxIdleTime     = 1 * time.Minute
)

// Environment variables
const (
	// EnvDryRun suppresses statement execution while still compiling plans.
	EnvDryRun = "TERN_DRYRUN"
)

// Subprotocol identifiers accepted in configuration.
const (
	SubprotocolMySQL      = "mysql"
	SubprotocolPostgreSQL = "postgresql"
	SubprotocolH2         = "h2"
	SubprotocolSQLServer  = "sqlserver"
)

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tern.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
migration-dir: ./migrations
version-table: my_versions
color: true
db:
  subprotocol: postgresql
  host: localhost
  port: 5433
  database: appdb
  user: app
  password: secret
logging:
  level: debug
  format: color
`)
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.MigrationDir != "./migrations" {
		t.Errorf("migration dir = %q", doc.MigrationDir)
	}
	if doc.VersionTable != "my_versions" {
		t.Errorf("version table = %q", doc.VersionTable)
	}
	if doc.DB.Subprotocol != "postgresql" || doc.DB.Port != 5433 || doc.DB.Database != "appdb" {
		t.Errorf("db config = %#v", doc.DB)
	}
	if doc.Color == nil || !*doc.Color {
		t.Error("expected color enabled")
	}
	if doc.Logging.Level != "debug" || doc.Logging.Format != "color" {
		t.Errorf("logging = %#v", doc.Logging)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
db:
  subprotocol: mysql
  host: localhost
  database: appdb
`)
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.MigrationDir != "migrations" {
		t.Errorf("default migration dir = %q", doc.MigrationDir)
	}
	if doc.VersionTable != "schema_versions" {
		t.Errorf("default version table = %q", doc.VersionTable)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		name string
		doc  ConfigDoc
	}{
		{"default text", ConfigDoc{}},
		{"json", ConfigDoc{Logging: LoggingConfig{Format: "json"}}},
		{"color", ConfigDoc{Logging: LoggingConfig{Format: "color"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.NewLogger(); got == nil {
				t.Fatal("NewLogger returned nil")
			}
		})
	}
}

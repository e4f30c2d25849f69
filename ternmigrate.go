// Package ternmigrate records versioned, declarative schema changes and
// applies or reverts them against MySQL, PostgreSQL, SQL Server, or H2.
// Each migration file carries an up and a down program of backend-neutral
// commands; compilation into backend SQL is idempotent against the live
// schema and aware of the commands already planned in the same migration.
//
// The Migrator here is the embedding surface; cmd/tern wraps it for the
// command line.
package ternmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/loykin/ternmigrate/internal/backend"
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/loykin/ternmigrate/internal/constants"
	"github.com/loykin/ternmigrate/internal/migration"
)

// DefaultVersionTable is the default name of the version-registry table.
const DefaultVersionTable = constants.DefaultVersionTable

// Migrator applies and reverts migrations from a file source against one
// target database.
type Migrator struct {
	FS           fs.FS
	DB           *sql.DB
	Backend      *backend.Backend
	VersionTable string
	Logger       *common.Logger
	DryRun       bool
}

// New resolves the backend for the subprotocol (issuing the H2 version
// probe when needed) and binds it to the migration source. An unset
// version table falls back to DefaultVersionTable; TERN_DRYRUN in the
// environment forces dry-run mode.
func New(db *sql.DB, subprotocol, database string, fsys fs.FS, versionTable string) (*Migrator, error) {
	b, err := backend.New(subprotocol, db, database)
	if err != nil {
		return nil, err
	}
	if versionTable == "" {
		versionTable = DefaultVersionTable
	}
	return &Migrator{
		FS:           fsys,
		DB:           db,
		Backend:      b,
		VersionTable: versionTable,
		Logger:       common.GetLogger().WithBackend(subprotocol),
		DryRun:       os.Getenv(constants.EnvDryRun) != "",
	}, nil
}

func (m *Migrator) registry() *migration.Registry {
	return &migration.Registry{DB: m.DB, SQL: m.Backend.Registry, Table: m.VersionTable}
}

func (m *Migrator) runner() *migration.Runner {
	return &migration.Runner{
		DB:           m.DB,
		Compiler:     m.Backend.Compiler,
		Introspector: m.Backend.Introspector,
		Registry:     m.registry(),
		Logger:       m.Logger,
		DryRun:       m.DryRun,
	}
}

// Init creates the version-registry table when missing.
func (m *Migrator) Init() error {
	return m.registry().Ensure()
}

// CurrentVersion returns the highest recorded version, or "" when none.
func (m *Migrator) CurrentVersion() (string, error) {
	return m.registry().CurrentVersion()
}

// Versions returns every recorded version in ascending order.
func (m *Migrator) Versions() ([]string, error) {
	return m.registry().Versions()
}

// Missing returns versions present as files but absent from the registry,
// in ascending order. Versions older than the current one surface here
// after branch merges.
func (m *Migrator) Missing() ([]string, error) {
	files, err := migration.ListFiles(m.FS)
	if err != nil {
		return nil, err
	}
	applied, err := m.Versions()
	if err != nil {
		return nil, err
	}
	appliedSet := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		appliedSet[v] = struct{}{}
	}
	var out []string
	for _, f := range files {
		if _, ok := appliedSet[f.Version]; !ok {
			out = append(out, f.Version)
		}
	}
	return out, nil
}

// MigrateUp applies pending migrations in version order. With no filter,
// pending means strictly after the current version; with a filter, the
// missing set is narrowed to the named versions. Returns the versions
// applied before any failure.
func (m *Migrator) MigrateUp(ctx context.Context, only []string) ([]string, error) {
	files, err := migration.ListFiles(m.FS)
	if err != nil {
		return nil, err
	}

	var selected []migration.File
	if len(only) > 0 {
		missing, err := m.Missing()
		if err != nil {
			return nil, err
		}
		want := make(map[string]struct{}, len(only))
		for _, v := range only {
			want[v] = struct{}{}
		}
		missingSet := make(map[string]struct{}, len(missing))
		for _, v := range missing {
			missingSet[v] = struct{}{}
		}
		for _, f := range files {
			if _, named := want[f.Version]; !named {
				continue
			}
			if _, pending := missingSet[f.Version]; pending {
				selected = append(selected, f)
			}
		}
	} else {
		current, err := m.CurrentVersion()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.Version > current {
				selected = append(selected, f)
			}
		}
	}

	runner := m.runner()
	applied := make([]string, 0, len(selected))
	for _, f := range selected {
		mig, err := migration.Load(m.FS, f)
		if err != nil {
			return applied, err
		}
		if err := runner.RunUp(ctx, mig); err != nil {
			return applied, err
		}
		applied = append(applied, f.Version)
	}
	return applied, nil
}

// Rollback runs the down program of the newest applied migration and
// removes its version, leaving its predecessor current. Returns the
// rolled-back version, or "" when nothing was applied.
func (m *Migrator) Rollback(ctx context.Context) (string, error) {
	applied, err := m.Versions()
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", nil
	}
	newest := applied[len(applied)-1]

	mig, err := m.loadVersion(newest)
	if err != nil {
		return "", err
	}
	if err := m.runner().RunDown(ctx, mig); err != nil {
		return "", err
	}
	return newest, nil
}

// Reset rolls back every applied migration in reverse order. Returns the
// versions rolled back before any failure.
func (m *Migrator) Reset(ctx context.Context) ([]string, error) {
	applied, err := m.Versions()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(applied)))

	runner := m.runner()
	rolled := make([]string, 0, len(applied))
	for _, v := range applied {
		mig, err := m.loadVersion(v)
		if err != nil {
			return rolled, err
		}
		if err := runner.RunDown(ctx, mig); err != nil {
			return rolled, err
		}
		rolled = append(rolled, v)
	}
	return rolled, nil
}

func (m *Migrator) loadVersion(version string) (*migration.Migration, error) {
	files, err := migration.ListFiles(m.FS)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Version == version {
			return migration.Load(m.FS, f)
		}
	}
	return nil, fmt.Errorf("no migration file for version %s", version)
}

package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/introspect"
)

// Runner executes one migration at a time against a target database: it
// binds a fresh plan, compiles each command, executes the emitted
// statements in order, and records the version on success.
//
// DryRun compiles and logs every statement but executes nothing and leaves
// the registry untouched.
type Runner struct {
	DB           *sql.DB
	Compiler     dialect.Compiler
	Introspector introspect.Introspector
	Registry     *Registry
	Logger       *common.Logger
	DryRun       bool
}

func (r *Runner) logger() *common.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return common.GetLogger()
}

// RunUp applies one migration's up program and records its version.
func (r *Runner) RunUp(ctx context.Context, m *Migration) error {
	log := r.logger().WithVersion(m.Version)
	log.Info("applying migration", "name", m.Name)

	if err := r.runCommands(ctx, m.Up, log); err != nil {
		return fmt.Errorf("migration %s failed: %w", m.Name, err)
	}

	if r.DryRun {
		log.Info("dry run, version not recorded")
		return nil
	}
	if err := r.Registry.Insert(m.Version); err != nil {
		return fmt.Errorf("record version %s: %w", m.Version, err)
	}
	log.Info("migration applied")
	return nil
}

// RunDown executes one migration's down program and deletes its version.
func (r *Runner) RunDown(ctx context.Context, m *Migration) error {
	log := r.logger().WithVersion(m.Version)
	log.Info("rolling back migration", "name", m.Name)

	if err := r.runCommands(ctx, m.Down, log); err != nil {
		return fmt.Errorf("rollback %s failed: %w", m.Name, err)
	}

	if r.DryRun {
		log.Info("dry run, version not removed")
		return nil
	}
	if err := r.Registry.Delete(m.Version); err != nil {
		return fmt.Errorf("remove version %s: %w", m.Version, err)
	}
	log.Info("migration rolled back")
	return nil
}

// runCommands compiles and executes a command sequence with a plan scoped
// to this invocation. Each command records in the plan after compilation
// and before the next command compiles.
func (r *Runner) runCommands(ctx context.Context, cmds []command.Command, log *common.Logger) error {
	cctx := dialect.NewContext(r.Introspector)
	cctx.Logger = log.Logger

	for _, cmd := range cmds {
		stmts, err := r.Compiler.Compile(cmd, cctx)
		if err != nil {
			return err
		}
		cctx.Plan.Add(cmd)
		for _, stmt := range stmts {
			if r.DryRun {
				log.Info("dry run", "sql", stmt)
				continue
			}
			log.Debug("executing", "sql", stmt)
			if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %s", CleanDriverError(err), stmt)
			}
		}
	}
	return nil
}

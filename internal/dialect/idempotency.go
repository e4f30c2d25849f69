package dialect

import "github.com/loykin/ternmigrate/internal/command"

// Idempotency rules shared by every backend. A "skip" means the live state
// already satisfies the command and nothing is emitted.

// SkipCreateTable: the table exists and no prior drop-table for it is in
// the plan.
func SkipCreateTable(ctx *Context, table string) (bool, error) {
	exists, err := ctx.TableExists(table)
	if err != nil {
		return false, err
	}
	return exists && !ctx.Plan.DroppedTable(table), nil
}

// SkipAddColumn: the column exists and no prior alter-table in the plan
// dropped it on the same table.
func SkipAddColumn(ctx *Context, table, column string) (bool, error) {
	exists, err := ctx.ColumnExists(table, column)
	if err != nil {
		return false, err
	}
	return exists && !ctx.Plan.DroppedColumn(table, column), nil
}

// SkipDropColumn: the column does not exist. There is no intra-plan
// "add then drop" check.
func SkipDropColumn(ctx *Context, table, column string) (bool, error) {
	exists, err := ctx.ColumnExists(table, column)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SkipAddConstraint: a foreign key with the name exists and no prior
// alter-table in the plan dropped it.
func SkipAddConstraint(ctx *Context, table, name string) (bool, error) {
	exists, err := ctx.ForeignKeyExists(table, name)
	if err != nil {
		return false, err
	}
	return exists && !ctx.Plan.DroppedConstraint(table, name), nil
}

// SkipDropConstraint: the foreign key does not exist. For the primary-key
// sentinel, primary-key existence is checked instead.
func SkipDropConstraint(ctx *Context, table, name string) (bool, error) {
	if name == command.PrimaryKeySentinel {
		exists, err := ctx.PrimaryKeyExists(table)
		if err != nil {
			return false, err
		}
		return !exists, nil
	}
	exists, err := ctx.ForeignKeyExists(table, name)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SkipCreateIndex: the index exists and no prior drop-index for the same
// (table, index) is in the plan.
func SkipCreateIndex(ctx *Context, table, index string) (bool, error) {
	exists, err := ctx.IndexExists(table, index)
	if err != nil {
		return false, err
	}
	return exists && !ctx.Plan.DroppedIndex(table, index), nil
}

// SkipDropIndex: the index does not exist.
func SkipDropIndex(ctx *Context, table, index string) (bool, error) {
	exists, err := ctx.IndexExists(table, index)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

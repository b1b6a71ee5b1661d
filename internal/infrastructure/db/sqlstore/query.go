package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/clientops/hub/internal/core/ports"
)

// conditions accumulates AND-ed WHERE predicates and their arguments.
type conditions struct {
	preds []string
	args  []any
}

func (c *conditions) add(pred string, args ...any) {
	c.preds = append(c.preds, pred)
	c.args = append(c.args, args...)
}

func (c conditions) String() string {
	if len(c.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.preds, " AND ")
}

// selectPage counts the rows matching where and returns the requested window
// of them. A zero Limit returns every matching row.
func selectPage[T any](ctx context.Context, q sqlx.ExtContext, columns, from string, where conditions, orderBy string, f ports.ListFilter) ([]T, int64, error) {
	var total int64
	countQuery := "SELECT COUNT(*) FROM " + from + where.String()
	if err := sqlx.GetContext(ctx, q, &total, q.Rebind(countQuery), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", from, err)
	}

	args := where.args
	query := "SELECT " + columns + " FROM " + from + where.String() + " ORDER BY " + orderBy
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args[:len(args):len(args)], f.Limit, f.Offset)
	}

	items := make([]T, 0)
	if err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", from, err)
	}
	return items, total, nil
}

// insertReturningID runs an INSERT and returns the generated primary key.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execAffected runs a statement and returns the number of rows it changed.
func execAffected(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// softDelete archives an active row of table. It reports whether a row changed.
func softDelete(ctx context.Context, q sqlx.ExtContext, table string, id int64, at time.Time) (bool, error) {
	n, err := execAffected(ctx, q, "UPDATE "+table+" SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", at, id)
	if err != nil {
		return false, fmt.Errorf("archive %s %d: %w", table, id, err)
	}
	return n > 0, nil
}

// restore clears deleted_at on an archived row of table.
func restore(ctx context.Context, q sqlx.ExtContext, table string, id int64) (bool, error) {
	n, err := execAffected(ctx, q, "UPDATE "+table+" SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL", id)
	if err != nil {
		return false, fmt.Errorf("restore %s %d: %w", table, id, err)
	}
	return n > 0, nil
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// foldFunc is a SQLite function lowercasing its argument with Unicode rules.
// The built-in LOWER only folds ASCII.
const foldFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1, foldCase); err != nil {
		panic(fmt.Sprintf("sqlstore: register %s: %v", foldFunc, err))
	}
}

func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// containsFold adds a case-insensitive substring match of term against any of
// columns. Postgres uses ILIKE; SQLite compares unicode_lower on both sides.
func (c *conditions) containsFold(q sqlx.ExtContext, term string, columns ...string) {
	preds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	postgres := q.DriverName() == DriverPostgres
	for _, col := range columns {
		if postgres {
			preds = append(preds, col+" ILIKE ?")
			args = append(args, "%"+term+"%")
			continue
		}
		preds = append(preds, foldFunc+"("+col+") LIKE ?")
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	c.add("("+strings.Join(preds, " OR ")+")", args...)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/umsra/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/umsra/internal/services/admin/filter"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sqlitemigrate.Open(path)
	if err != nil {
		return nil, err
	}

	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// deleteIDs removes rows by primary key and returns the number removed.
func deleteIDs(ctx context.Context, db execer, table string, ids []int64) (int, error) {
	cond := filter.In("id", ids)
	if cond.Empty() {
		return 0, nil
	}
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+cond.Clause, cond.Params...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s rows affected: %w", table, err)
	}
	return int(n), nil
}

// requireUpdated maps a zero-row update onto storage.ErrNotFound.
func requireUpdated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// listSpec describes the SELECT behind one changelist.
type listSpec struct {
	columns string
	from    string
	groupBy string
	fields  filter.Fields
	search  string
	idCol   string
	order   string

	// countFrom overrides from for COUNT(*) when from fans out through joins.
	countFrom string
}

func (spec listSpec) where(query storage.ListQuery) (filter.Condition, error) {
	parsed, err := filter.Parse(query.Filter, spec.fields)
	if err != nil {
		return filter.Condition{}, apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid filter", err)
	}
	conds := []filter.Condition{parsed}
	for _, p := range query.Predicates {
		c, err := filter.Compare(spec.fields, p.Field, p.Op, p.Value)
		if err != nil {
			return filter.Condition{}, apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid predicate", err)
		}
		if p.Negate {
			c = filter.Not(c)
		}
		conds = append(conds, c)
	}
	if spec.search != "" {
		conds = append(conds, filter.Contains(spec.search, query.Search))
	}
	conds = append(conds, filter.In(spec.idCol, query.IDs))
	return filter.And(conds...), nil
}

// listRows runs a paged changelist query and scans each row.
func listRows[T any](ctx context.Context, db execer, spec listSpec, query storage.ListQuery, scan func(*sql.Rows) (T, error)) (storage.Page[T], error) {
	cond, err := spec.where(query)
	if err != nil {
		return storage.Page[T]{}, err
	}
	orderBy, err := filter.OrderBy(query.OrderBy, spec.fields, spec.order)
	if err != nil {
		return storage.Page[T]{}, apperrors.Wrap(apperrors.CodeInvalidOrder, "invalid order", err)
	}

	var page storage.Page[T]
	countFrom := spec.from
	if spec.countFrom != "" {
		countFrom = spec.countFrom
	}
	countSQL := "SELECT COUNT(*) FROM " + countFrom + cond.Where()
	if err := db.QueryRowContext(ctx, countSQL, cond.Params...).Scan(&page.Total); err != nil {
		return storage.Page[T]{}, fmt.Errorf("count: %w", err)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(spec.columns)
	b.WriteString(" FROM ")
	b.WriteString(spec.from)
	b.WriteString(cond.Where())
	if spec.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(spec.groupBy)
	}
	if orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(orderBy)
	}
	params := append([]any{}, cond.Params...)
	if query.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, query.Limit, max(query.Offset, 0))
	}

	rows, err := db.QueryContext(ctx, b.String(), params...)
	if err != nil {
		return storage.Page[T]{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scan(rows)
		if err != nil {
			return storage.Page[T]{}, fmt.Errorf("scan: %w", err)
		}
		page.Rows = append(page.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return storage.Page[T]{}, fmt.Errorf("rows: %w", err)
	}
	return page, nil
}

// queryIDs collects a single int64 column.
func queryIDs(ctx context.Context, db execer, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// getOrCreateNamed returns the id of the row of table called name, inserting
// it first if needed.
func getOrCreateNamed(ctx context.Context, db execer, table, name string) (int64, error) {
	if _, err := db.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		return 0, fmt.Errorf("get or create %s: %w", table, mapWriteError(err))
	}
	var id int64
	if err := db.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get or create %s: %w", table, err)
	}
	return id, nil
}

// resolveEntityRefs get-or-creates e's category and origin from their names.
func resolveEntityRefs(ctx context.Context, db execer, e *storage.Entity) error {
	if name := strings.TrimSpace(e.CategoryName); name != "" {
		if err := (storage.Category{Name: name}).Validate(); err != nil {
			return err
		}
		id, err := getOrCreateNamed(ctx, db, "categories", name)
		if err != nil {
			return err
		}
		e.CategoryID = id
	}
	if name := strings.TrimSpace(e.OriginName); name != "" {
		if err := (storage.Origin{Name: name}).Validate(); err != nil {
			return err
		}
		id, err := getOrCreateNamed(ctx, db, "origins", name)
		if err != nil {
			return err
		}
		e.OriginID = id
	}
	return nil
}

// replaceLinks rewrites the (owner, target) pairs of a join table.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, ownerCol, targetCol string, owner int64, targets []int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+ownerCol+" = ?", owner); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	insert := "INSERT OR IGNORE INTO " + table + " (" + ownerCol + ", " + targetCol + ") VALUES (?, ?)"
	for _, target := range targets {
		if target <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, insert, owner, target); err != nil {
			return fmt.Errorf("link %s: %w", table, mapWriteError(err))
		}
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	if id <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// mapWriteError translates constraint failures into storage errors.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", storage.ErrAlreadyExists, err)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperrors.Wrap(apperrors.CodeReferenceRequired, "referenced record does not exist", err)
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "value rejected by constraint", err)
		}
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "unique constraint failed") {
		return fmt.Errorf("%w: %v", storage.ErrAlreadyExists, err)
	}
	return err
}

var _ storage.Store = (*Store)(nil)

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlds

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/storagemodels"
)

// Store implements datastore.Store on top of database/sql.
type Store struct {
	db *sql.DB

	usersTable     string
	idColumn       string
	usernameColumn string

	// primary key column per model table; defaults to "id"
	keyColumns map[string]string

	log *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for statement reporting.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithUsersTable overrides the canonical user table and its columns.
func WithUsersTable(table, idColumn, usernameColumn string) Option {
	return func(s *Store) {
		s.usersTable = table
		s.idColumn = idColumn
		s.usernameColumn = usernameColumn
	}
}

// WithKeyColumn overrides the primary key column reported for one model table.
func WithKeyColumn(table, column string) Option {
	return func(s *Store) {
		s.keyColumns[table] = column
	}
}

// New wraps an existing database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:             db,
		usersTable:     "users",
		idColumn:       "id",
		usernameColumn: "username",
		keyColumns:     make(map[string]string),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a database by driver name and DSN and wraps it.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return New(db, opts...), nil
}

// DB returns the underlying sql.DB for schema management and advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteIdent validates and quotes a table or column name. Values never pass
// through here; they are always bound as placeholders.
func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", errors.NewValidationError(name, "invalid identifier")
	}
	return `"` + name + `"`, nil
}

// ResolveUser fetches the canonical user row for a foreign key value.
func (s *Store) ResolveUser(ctx context.Context, userID string) (*storagemodels.UserRecord, error) {
	users, err := quoteIdent(s.usersTable)
	if err != nil {
		return nil, err
	}
	idCol, err := quoteIdent(s.idColumn)
	if err != nil {
		return nil, err
	}
	nameCol, err := quoteIdent(s.usernameColumn)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ?", idCol, nameCol, users, idCol)

	var u storagemodels.UserRecord
	err = s.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Username)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving user %s: %w", userID, err)
	}
	return &u, nil
}

// BulkUpdate sets the given columns on every row matching all equality
// filters, in a single UPDATE statement.
func (s *Store) BulkUpdate(ctx context.Context, table string, filters map[string]any, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, errors.NewValidationError("updates", "no updates provided")
	}
	if len(filters) == 0 {
		return 0, errors.NewValidationError("filters", "no filters provided")
	}

	tbl, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}

	setClauses, setArgs, err := buildClauses(updates)
	if err != nil {
		return 0, err
	}
	whereClauses, whereArgs, err := buildClauses(filters)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		tbl,
		strings.Join(setClauses, ", "),
		strings.Join(whereClauses, " AND "),
	)
	args := append(setArgs, whereArgs...)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update on %s: %w", table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		// Driver cannot report a count; the update still happened.
		return -1, nil
	}
	s.log.Debug("bulk update executed", zap.String("table", table), zap.Int64("rows", rows))
	return rows, nil
}

// FindMismatches returns the primary keys of rows whose denormalised
// username differs from the canonical one. The comparison runs inside the
// database as a join; matching rows are never materialised here. Rows whose
// foreign key dangles drop out of the join and are not reported.
func (s *Store) FindMismatches(ctx context.Context, q storagemodels.MismatchQuery) ([]string, error) {
	tbl, err := quoteIdent(q.Table)
	if err != nil {
		return nil, err
	}
	source, err := quoteIdent(q.Source)
	if err != nil {
		return nil, err
	}
	target, err := quoteIdent(q.Target)
	if err != nil {
		return nil, err
	}
	key, err := quoteIdent(s.keyColumn(q.Table))
	if err != nil {
		return nil, err
	}
	users, err := quoteIdent(s.usersTable)
	if err != nil {
		return nil, err
	}
	idCol, err := quoteIdent(s.idColumn)
	if err != nil {
		return nil, err
	}
	nameCol, err := quoteIdent(s.usernameColumn)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT t.%s FROM %s t JOIN %s u ON u.%s = t.%s WHERE t.%s <> u.%s ORDER BY t.%s",
		key, tbl, users, idCol, source, target, nameCol, key,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mismatch query on %s: %w", q.Table, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning mismatch key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading mismatch keys: %w", err)
	}
	return keys, nil
}

// UpdateUsername rewrites the canonical username, untruncated.
// Updating an absent user affects zero rows and is not an error.
func (s *Store) UpdateUsername(ctx context.Context, userID, username string) error {
	users, err := quoteIdent(s.usersTable)
	if err != nil {
		return err
	}
	idCol, err := quoteIdent(s.idColumn)
	if err != nil {
		return err
	}
	nameCol, err := quoteIdent(s.usernameColumn)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?", users, nameCol, idCol)
	if _, err := s.db.ExecContext(ctx, query, username, userID); err != nil {
		return fmt.Errorf("updating canonical username: %w", err)
	}
	return nil
}

// EnsureUsersTable creates the canonical user table if it does not exist.
// Intended for tooling and tests; applications usually own their schema.
func (s *Store) EnsureUsersTable(ctx context.Context) error {
	users, err := quoteIdent(s.usersTable)
	if err != nil {
		return err
	}
	idCol, err := quoteIdent(s.idColumn)
	if err != nil {
		return err
	}
	nameCol, err := quoteIdent(s.usernameColumn)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT NOT NULL, created_at TEXT, updated_at TEXT)",
		users, idCol, nameCol,
	)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensuring users table: %w", err)
	}
	return nil
}

func (s *Store) keyColumn(table string) string {
	if col, ok := s.keyColumns[table]; ok {
		return col
	}
	return "id"
}

// buildClauses turns a column->value map into "col = ?" clauses and their
// arguments. Columns are sorted so the generated SQL is deterministic.
func buildClauses(m map[string]any) ([]string, []any, error) {
	cols := make([]string, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clauses := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		quoted, err := quoteIdent(col)
		if err != nil {
			return nil, nil, err
		}
		clauses = append(clauses, quoted+" = ?")
		args = append(args, m[col])
	}
	return clauses, args, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositories wires the PostgreSQL-backed repositories.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:    NewUserRepository(pool),
		ProjectRepo: NewProjectRepository(pool),
		ContactRepo: NewContactRepository(pool),
		Health:      pgHealth{pool: pool},
	}
}

type pgHealth struct {
	pool *pgxpool.Pool
}

func (h pgHealth) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
		case pgCheckViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
		case pgInvalidTextRepr:
			return ErrInvalidID
		}
	}
	return err
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// orderBy renders an ORDER BY clause from allowlisted logical field names.
// Unknown fields are skipped; callers validate sort input beforehand.
func orderBy(fields []SortField, columns map[string]string, fallback string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := columns[f.Field]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		} else {
			col += " ASC"
		}
		parts = append(parts, col)
	}
	if len(parts) == 0 {
		parts = append(parts, fallback)
	}
	// id keeps pagination stable across equal sort keys
	return " ORDER BY " + strings.Join(parts, ", ") + ", id"
}

func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// whereBuilder accumulates positional SQL conditions.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for the argument after the current ones.
func (w *whereBuilder) next(offset int) string {
	return fmt.Sprintf("$%d", len(w.args)+offset)
}

func countGroups(ctx context.Context, pool *pgxpool.Pool, table, column string) ([]GroupCount, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(NULLIF(%s, ''), '%s') AS key, COUNT(*)
		FROM %s
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`, column, UnspecifiedKey, table)

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

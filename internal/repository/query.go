// Package repository implements typed, table-scoped reads on top of the store adapter.
package repository

import (
	"context"
	"log/slog"

	"blogql/internal/database"
	"blogql/internal/middleware"
)

// Query describes a read of one table. It holds no rows: every Run re-executes
// the select, so a Query can be kept and run again to see fresh data.
type Query[T any] struct {
	store  database.Store
	table  string
	where  []database.Condition
	decode func(database.Row) T
}

func newQuery[T any](store database.Store, table string, decode func(database.Row) T) Query[T] {
	return Query[T]{store: store, table: table, decode: decode}
}

// Where returns a copy of q that only matches rows whose column equals value.
func (q Query[T]) Where(column string, value interface{}) Query[T] {
	where := make([]database.Condition, len(q.where), len(q.where)+1)
	copy(where, q.where)
	q.where = append(where, database.Condition{Column: column, Value: value})
	return q
}

// Run executes the query and decodes every row. The result is never nil.
func (q Query[T]) Run(ctx context.Context) ([]T, error) {
	rows, err := q.store.SelectAll(ctx, q.table, q.where...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, q.decode(row))
	}

	middleware.Logger.DebugContext(ctx, "repository read",
		slog.String("table", q.table),
		slog.Int("conditions", len(q.where)),
		slog.Int("rows", len(out)),
	)
	return out, nil
}

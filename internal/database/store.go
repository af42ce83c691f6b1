package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogql/internal/middleware"
	"blogql/internal/models"
	"blogql/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is one table row keyed by column name.
type Row = map[string]interface{}

// Condition narrows a select to rows whose Column equals Value.
type Condition struct {
	Column string
	Value  interface{}
}

// Store is the table-level access the repositories and the mutation path share.
type Store interface {
	// SelectAll returns the rows of table matching every condition, in primary key order.
	SelectAll(ctx context.Context, table string, where ...Condition) ([]Row, error)
	// Insert writes record into table. There is no transaction and no retry.
	Insert(ctx context.Context, table string, record Row) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) SelectAll(ctx context.Context, table string, where ...Condition) (rows []Row, err error) {
	t, ok := LookupTable(table)
	if !ok {
		return nil, models.NewValidationError(fmt.Sprintf("unknown table %q", table))
	}
	for _, c := range where {
		if !t.HasColumn(c.Column) {
			return nil, models.NewValidationError(fmt.Sprintf("unknown column %q on %s", c.Column, table))
		}
	}

	span, ctx := observability.NewSpan(ctx, "store.select", attribute.String("db.table", table))
	defer func() { span.End(err) }()
	defer observability.TrackQuery("select", table)()

	q := s.db.WithContext(ctx).Table(t.Name)
	for _, c := range where {
		q = q.Where(map[string]interface{}{c.Column: c.Value})
	}

	rows = []Row{}
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: t.PrimaryKey}}).Find(&rows).Error; err != nil {
		return nil, models.NewStoreUnavailableError(fmt.Errorf("select from %s: %w", table, err))
	}
	return rows, nil
}

func (s *gormStore) Insert(ctx context.Context, table string, record Row) (err error) {
	t, ok := LookupTable(table)
	if !ok {
		return models.NewValidationError(fmt.Sprintf("unknown table %q", table))
	}
	for column := range record {
		if !t.HasColumn(column) {
			return models.NewValidationError(fmt.Sprintf("unknown column %q on %s", column, table))
		}
	}

	span, ctx := observability.NewSpan(ctx, "store.insert", attribute.String("db.table", table))
	defer func() { span.End(err) }()
	defer observability.TrackQuery("insert", table)()

	if err := s.db.WithContext(ctx).Table(t.Name).Create(map[string]interface{}(record)).Error; err != nil {
		if isConstraintError(err) {
			err = fmt.Errorf("constraint violation: %w", err)
		}
		middleware.Logger.WarnContext(ctx, "store insert failed",
			slog.String("table", table),
			slog.String("error", err.Error()),
		)
		return models.NewStoreWriteError(table, err)
	}
	return nil
}

// isConstraintError checks if a DB error is an integrity constraint violation.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	// PostgreSQL integrity constraint violations are SQLSTATE class 23.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "duplicate key")
}

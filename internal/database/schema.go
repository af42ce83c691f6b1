package database

import (
	"context"
	"fmt"
	"log/slog"

	"blogql/internal/middleware"

	"gorm.io/gorm"
)

// Table names as they exist in the store.
const (
	UsersTable = "Users"
	PostsTable = "Posts"
)

// Table describes one table the adapter may touch.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []string
}

var tables = map[string]Table{
	UsersTable: {
		Name:       UsersTable,
		PrimaryKey: "userID",
		Columns:    []string{"userID", "username", "password", "description", "pfp"},
	},
	PostsTable: {
		Name:       PostsTable,
		PrimaryKey: "postID",
		Columns:    []string{"postID", "title", "content", "date", "userID"},
	},
}

// LookupTable returns the registered table called name.
func LookupTable(name string) (Table, bool) {
	t, ok := tables[name]
	return t, ok
}

// HasColumn reports whether column belongs to the table.
func (t Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ddl holds the bootstrap statements per GORM dialect, in execution order.
var ddl = map[string][]string{
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS "Users" (
			"userID" INTEGER PRIMARY KEY AUTOINCREMENT,
			"username" TEXT NOT NULL,
			"password" TEXT NOT NULL,
			"description" TEXT NOT NULL,
			"pfp" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS "Posts" (
			"postID" INTEGER PRIMARY KEY AUTOINCREMENT,
			"title" TEXT NOT NULL,
			"content" TEXT,
			"date" TEXT NOT NULL,
			"userID" INTEGER NOT NULL REFERENCES "Users"("userID")
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS "Users" (
			"userID" SERIAL PRIMARY KEY,
			"username" TEXT NOT NULL,
			"password" TEXT NOT NULL,
			"description" TEXT NOT NULL,
			"pfp" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS "Posts" (
			"postID" SERIAL PRIMARY KEY,
			"title" TEXT NOT NULL,
			"content" TEXT,
			"date" TEXT NOT NULL,
			"userID" INTEGER NOT NULL REFERENCES "Users"("userID")
		)`,
	},
}

// EnsureSchema creates the Users and Posts tables when they are missing. It
// never alters an existing table.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	dialect := db.Dialector.Name()
	statements, ok := ddl[dialect]
	if !ok {
		return fmt.Errorf("no schema bootstrap for dialect %q", dialect)
	}

	for _, stmt := range statements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	middleware.Logger.InfoContext(ctx, "Database schema ensured", slog.String("dialect", dialect))
	return nil
}

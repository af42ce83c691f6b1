// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"blogql/internal/config"
	"blogql/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MemoryConfig is a configuration whose store is a private in-memory SQLite database.
func MemoryConfig() *config.Config {
	return &config.Config{
		Env:                   "test",
		GraphQLPort:           "4000",
		GraphQLPath:           "/",
		LivenessPort:          "4060",
		AllowedOrigins:        "*",
		GraphQLMaxDepth:       10,
		GraphQLMaxParallelism: 10,
		DBDriver:              config.DriverSQLite,
		DBPath:                ":memory:",
		TracingSampleRatio:    1,
	}
}

// NewDB opens an empty in-memory database without any tables.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(MemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

// NewStore opens an in-memory database with the Users and Posts tables.
func NewStore(t *testing.T) (*gorm.DB, database.Store) {
	t.Helper()
	db := NewDB(t)
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return db, database.NewStore(db)
}

// InsertUser adds a user row; pfp may be nil.
func InsertUser(t *testing.T, store database.Store, username, password, description string, pfp *string) {
	t.Helper()
	row := database.Row{"username": username, "password": password, "description": description}
	if pfp != nil {
		row["pfp"] = *pfp
	}
	require.NoError(t, store.Insert(context.Background(), database.UsersTable, row))
}

// InsertPost adds a post row owned by userID.
func InsertPost(t *testing.T, store database.Store, title, content, date string, userID int) {
	t.Helper()
	require.NoError(t, store.Insert(context.Background(), database.PostsTable, database.Row{
		"title":   title,
		"content": content,
		"date":    date,
		"userID":  userID,
	}))
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

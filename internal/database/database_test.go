package database

import (
	"context"
	"testing"

	"blogql/internal/config"
	"blogql/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"}
}

func TestConnect_InMemory(t *testing.T) {
	db, err := Connect(memoryConfig())
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestConnect_UnreachableFile(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: "/nonexistent-dir/blog.db"}

	_, err := Connect(cfg)
	require.Error(t, err)
	assert.Equal(t, models.CodeStoreUnavailable, models.CodeOf(err))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
	assert.Equal(t, models.CodeStoreUnavailable, models.CodeOf(err))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "./database/blog.db?_foreign_keys=on", sqliteDSN("./database/blog.db"))
	assert.Equal(t, "file:blog.db?cache=shared&_foreign_keys=on", sqliteDSN("file:blog.db?cache=shared"))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := Connect(memoryConfig())
	require.NoError(t, err)
	defer Close(db)

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, EnsureSchema(ctx, db))

	assert.True(t, db.Migrator().HasTable(UsersTable))
	assert.True(t, db.Migrator().HasTable(PostsTable))
}

func TestLookupTable(t *testing.T) {
	users, ok := LookupTable(UsersTable)
	require.True(t, ok)
	assert.Equal(t, "userID", users.PrimaryKey)
	assert.True(t, users.HasColumn("pfp"))
	assert.False(t, users.HasColumn("email"))

	_, ok = LookupTable("Comments")
	assert.False(t, ok)
}

package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                   "development",
		GraphQLPort:           "4000",
		GraphQLPath:           "/",
		LivenessPort:          "4060",
		GraphQLMaxDepth:       10,
		GraphQLMaxParallelism: 10,
		DBDriver:              DriverSQLite,
		DBPath:                ":memory:",
		TracingSampleRatio:    1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Defaults", func(*Config) {}, false},
		{"Missing GraphQL port", func(c *Config) { c.GraphQLPort = "" }, true},
		{"Missing liveness port", func(c *Config) { c.LivenessPort = "" }, true},
		{"Shared port", func(c *Config) { c.LivenessPort = c.GraphQLPort }, true},
		{"Relative GraphQL path", func(c *Config) { c.GraphQLPath = "graphql" }, true},
		{"Zero depth", func(c *Config) { c.GraphQLMaxDepth = 0 }, true},
		{"Zero parallelism", func(c *Config) { c.GraphQLMaxParallelism = 0 }, true},
		{"Sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"SQLite without path", func(c *Config) { c.DBPath = "" }, true},
		{"Postgres in development", func(c *Config) { c.DBDriver = DriverPostgres }, false},
		{"Postgres in production with default password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverPostgres
			c.DBPassword = "password"
		}, true},
		{"Postgres in production with strong password", func(c *Config) {
			c.Env = "prod"
			c.DBDriver = DriverPostgres
			c.DBPassword = "a-much-stronger-password"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	os.Unsetenv("APP_ENV")
	os.Unsetenv("DB_DRIVER")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "4000", c.GraphQLPort)
	assert.Equal(t, "4060", c.LivenessPort)
	assert.Equal(t, "/", c.GraphQLPath)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "./database/blog.db", c.DBPath)
	assert.False(t, c.TracingEnabled)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("DB_DRIVER")
	defer os.Unsetenv("GRAPHQL_PORT")

	os.Setenv("DB_DRIVER", "  SQLite ")
	os.Setenv("GRAPHQL_PORT", "5000")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "5000", c.GraphQLPort)
}

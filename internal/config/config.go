// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                   string  `mapstructure:"APP_ENV"`
	GraphQLPort           string  `mapstructure:"GRAPHQL_PORT"`
	GraphQLPath           string  `mapstructure:"GRAPHQL_PATH"`
	LivenessPort          string  `mapstructure:"LIVENESS_PORT"`
	AllowedOrigins        string  `mapstructure:"ALLOWED_ORIGINS"`
	GraphQLMaxDepth       int     `mapstructure:"GRAPHQL_MAX_DEPTH"`
	GraphQLMaxParallelism int     `mapstructure:"GRAPHQL_MAX_PARALLELISM"`
	DBDriver              string  `mapstructure:"DB_DRIVER"`
	DBPath                string  `mapstructure:"DB_PATH"`
	DBHost                string  `mapstructure:"DB_HOST"`
	DBPort                string  `mapstructure:"DB_PORT"`
	DBUser                string  `mapstructure:"DB_USER"`
	DBPassword            string  `mapstructure:"DB_PASSWORD"`
	DBName                string  `mapstructure:"DB_NAME"`
	DBSSLMode             string  `mapstructure:"DB_SSLMODE"`
	TracingEnabled        bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter       string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint          string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio    float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; environment variables and defaults cover everything.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config.%s.yml: %w", env, err)
			}
			log.Printf("No config.%s.yml found; using environment variables and defaults", env)
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("GRAPHQL_PORT", "4000")
	viper.SetDefault("GRAPHQL_PATH", "/")
	viper.SetDefault("LIVENESS_PORT", "4060")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("GRAPHQL_MAX_DEPTH", 10)
	viper.SetDefault("GRAPHQL_MAX_PARALLELISM", 10)
	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_PATH", "./database/blog.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "blog")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBDriver = strings.ToLower(strings.TrimSpace(config.DBDriver))
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the active profile is a production one.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.GraphQLPort == "" {
		return errors.New("GRAPHQL_PORT is required")
	}
	if c.LivenessPort == "" {
		return errors.New("LIVENESS_PORT is required")
	}
	if c.GraphQLPort == c.LivenessPort {
		return errors.New("LIVENESS_PORT must differ from GRAPHQL_PORT")
	}
	if !strings.HasPrefix(c.GraphQLPath, "/") {
		return fmt.Errorf("GRAPHQL_PATH %q must start with /", c.GraphQLPath)
	}
	if c.GraphQLMaxDepth <= 0 {
		return errors.New("GRAPHQL_MAX_DEPTH must be positive")
	}
	if c.GraphQLMaxParallelism <= 0 {
		return errors.New("GRAPHQL_MAX_PARALLELISM must be positive")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.IsProduction() && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.IsProduction() && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.IsProduction() && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production.")
	}

	return nil
}

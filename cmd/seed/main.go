// Command main creates the blog tables and fills them with demo data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"blogql/internal/config"
	"blogql/internal/database"
	"blogql/internal/seed"

	"github.com/spf13/cobra"
)

type options struct {
	users   int
	posts   int
	fixture string
	clean   bool
	seed    int64
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the Users and Posts tables and insert demo rows",
		Long: "Without flags the built-in fixture (the admin user and its post) is applied. " +
			"--users/--posts add fake rows on top; --fixture replaces the built-in fixture.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVar(&opts.users, "users", 0, "Number of fake users to create")
	flags.IntVar(&opts.posts, "posts", 0, "Number of fake posts to create")
	flags.StringVar(&opts.fixture, "fixture", "", "Path to a YAML fixture")
	flags.BoolVar(&opts.clean, "clean", false, "Delete existing rows before seeding")
	flags.Int64Var(&opts.seed, "seed", 0, "Random seed for fake data (0 picks one)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if cfg.DBDriver == config.DriverSQLite && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	s := seed.NewSeeder(db, opts.seed)
	if err := s.Prepare(ctx); err != nil {
		return err
	}

	if opts.clean {
		if err := s.ClearAll(ctx); err != nil {
			return err
		}
	}

	fx, err := seed.DefaultFixture()
	if opts.fixture != "" {
		fx, err = seed.LoadFixture(opts.fixture)
	}
	if err != nil {
		return err
	}
	if err := s.ApplyFixture(ctx, fx); err != nil {
		return err
	}

	if err := s.SeedFake(ctx, opts.users, opts.posts); err != nil {
		return err
	}

	log.Printf("Seeded %s (%s)", cfg.DBDriver, cfg.DBPath)
	return nil
}

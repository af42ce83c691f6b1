// Package seed creates demo data for the blog database. It is meant for
// development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"blogql/internal/database"
	"blogql/internal/middleware"
	"blogql/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// postDateLayout matches the dates of the sample rows, e.g. 8-29-24.
const postDateLayout = "1-2-06"

// Seeder inserts demo rows through the store adapter.
type Seeder struct {
	db    *gorm.DB
	store database.Store
	users repository.UserRepository
	posts repository.PostRepository
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewSeeder creates a Seeder bound to db. A zero seed picks a random one.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	store := database.NewStore(db)
	return &Seeder{
		db:    db,
		store: store,
		users: repository.NewUserRepository(store),
		posts: repository.NewPostRepository(store),
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Prepare creates the tables when they are missing.
func (s *Seeder) Prepare(ctx context.Context) error {
	return database.EnsureSchema(ctx, s.db)
}

// ClearAll deletes every post and user. Posts go first because of the foreign key.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, table := range []string{database.PostsTable, database.UsersTable} {
		if err := s.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %q", table)).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "Cleared demo data")
	return nil
}

// ApplyFixture inserts the fixture users, then their posts. Users whose
// username already exists and posts whose author already has a post with the
// same title are skipped, so applying a fixture twice changes nothing.
func (s *Seeder) ApplyFixture(ctx context.Context, fx *Fixture) error {
	inserted := 0
	for _, u := range fx.Users {
		existing, err := s.users.All().Where("username", u.Username).Run(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		row := database.Row{
			"username":    u.Username,
			"password":    u.Password,
			"description": u.Description,
		}
		if u.Pfp != nil {
			row["pfp"] = *u.Pfp
		}
		if err := s.store.Insert(ctx, database.UsersTable, row); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
		inserted++
	}

	insertedPosts := 0
	for _, p := range fx.Posts {
		owner, err := s.userID(ctx, p.Author)
		if err != nil {
			return err
		}
		existing, err := s.posts.All().Where("userID", owner).Where("title", p.Title).Run(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		row := database.Row{"title": p.Title, "date": p.Date, "userID": owner}
		if p.Content != nil {
			row["content"] = *p.Content
		}
		if err := s.store.Insert(ctx, database.PostsTable, row); err != nil {
			return fmt.Errorf("insert post %q: %w", p.Title, err)
		}
		insertedPosts++
	}

	middleware.Logger.InfoContext(ctx, "Applied fixture",
		slog.Int("users", inserted),
		slog.Int("posts", insertedPosts),
	)
	return nil
}

// userID resolves a username to its stored id. With duplicate usernames the
// first row wins.
func (s *Seeder) userID(ctx context.Context, username string) (int64, error) {
	users, err := s.users.All().Where("username", username).Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 || users[0].UserID == nil {
		return 0, fmt.Errorf("unknown author %q", username)
	}
	return cast.ToInt64E(*users[0].UserID)
}

// SeedFake inserts numUsers fake users and numPosts fake posts spread randomly
// across every user in the table.
func (s *Seeder) SeedFake(ctx context.Context, numUsers, numPosts int) error {
	for i := 0; i < numUsers; i++ {
		row := database.Row{
			"username":    s.faker.Username(),
			"password":    s.faker.Password(true, true, true, false, false, 12),
			"description": s.faker.Sentence(8),
		}
		if s.rng.Intn(2) == 0 {
			row["pfp"] = s.faker.ImageURL(128, 128)
		}
		if err := s.store.Insert(ctx, database.UsersTable, row); err != nil {
			return fmt.Errorf("insert fake user: %w", err)
		}
	}

	if numPosts == 0 {
		return nil
	}

	users, err := s.users.All().Run(ctx)
	if err != nil {
		return err
	}
	owners := make([]int64, 0, len(users))
	for _, u := range users {
		if u.UserID == nil {
			continue
		}
		if id, err := cast.ToInt64E(*u.UserID); err == nil {
			owners = append(owners, id)
		}
	}
	if len(owners) == 0 {
		return fmt.Errorf("cannot seed %d posts without users", numPosts)
	}

	for i := 0; i < numPosts; i++ {
		row := database.Row{
			"title":   s.faker.Sentence(5),
			"content": s.faker.Paragraph(1, 3, 5, "\n"),
			"date":    s.faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format(postDateLayout),
			"userID":  owners[s.rng.Intn(len(owners))],
		}
		if err := s.store.Insert(ctx, database.PostsTable, row); err != nil {
			return fmt.Errorf("insert fake post: %w", err)
		}
	}

	middleware.Logger.InfoContext(ctx, "Seeded fake data",
		slog.Int("users", numUsers),
		slog.Int("posts", numPosts),
	)
	return nil
}

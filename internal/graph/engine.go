// Package graph implements the blog's GraphQL schema: the snapshot lifecycle,
// the resolvers, and the executable schema that binds them.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"blogql/internal/database"
	"blogql/internal/middleware"
	"blogql/internal/models"
	"blogql/internal/observability"
	"blogql/internal/repository"

	"golang.org/x/sync/errgroup"
)

// State is the lifecycle position of an Engine.
type State int32

const (
	// Loading lasts from construction until the snapshot load finishes.
	Loading State = iota
	// Ready means the snapshot is available and requests are served.
	Ready
	// Failed means the snapshot load failed; it is terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the startup copy of both tables. It is never modified after load.
type Snapshot struct {
	Users []models.User
	Posts []models.Post
}

// PostsFor returns the snapshot posts owned by userID in load order.
func (s *Snapshot) PostsFor(userID string) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range s.Posts {
		if p.BelongsTo(userID) {
			out = append(out, p)
		}
	}
	return out
}

// Engine loads the snapshot once and answers every schema field. Queries read
// the snapshot; addPost writes to and re-reads the store. The snapshot is not
// refreshed after a write, so a new post stays invisible to getPosts and
// User.posts until the process restarts.
type Engine struct {
	store database.Store
	users repository.UserRepository
	posts repository.PostRepository

	once     sync.Once
	ready    chan struct{}
	state    atomic.Int32
	snapshot *Snapshot
	loadErr  error
}

// NewEngine returns an engine in the Loading state.
func NewEngine(store database.Store) *Engine {
	return &Engine{
		store: store,
		users: repository.NewUserRepository(store),
		posts: repository.NewPostRepository(store),
		ready: make(chan struct{}),
	}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Load reads Users and Posts concurrently and publishes the snapshot. Only the
// first call does any work; later calls return its result.
func (e *Engine) Load(ctx context.Context) error {
	e.once.Do(func() {
		var users []models.User
		var posts []models.Post

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			users, err = e.users.All().Run(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			posts, err = e.posts.All().Run(gctx)
			return err
		})

		if err := g.Wait(); err != nil {
			e.loadErr = models.NewStoreUnavailableError(fmt.Errorf("initial load: %w", err))
			e.state.Store(int32(Failed))
			close(e.ready)
			middleware.Logger.ErrorContext(ctx, "snapshot load failed", slog.String("error", err.Error()))
			return
		}

		e.snapshot = &Snapshot{Users: users, Posts: posts}
		e.state.Store(int32(Ready))
		close(e.ready)

		observability.SnapshotRows.WithLabelValues(database.UsersTable).Set(float64(len(users)))
		observability.SnapshotRows.WithLabelValues(database.PostsTable).Set(float64(len(posts)))
		middleware.Logger.InfoContext(ctx, "snapshot loaded",
			slog.Int("users", len(users)),
			slog.Int("posts", len(posts)),
		)
	})
	return e.loadErr
}

// Wait blocks until the engine leaves Loading or ctx ends.
func (e *Engine) Wait(ctx context.Context) (*Snapshot, error) {
	select {
	case <-e.ready:
		if e.loadErr != nil {
			return nil, e.loadErr
		}
		return e.snapshot, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for snapshot: %w", ctx.Err())
	}
}

// Test is the diagnostic field. Like every other field it waits for the load.
func (e *Engine) Test(ctx context.Context) (int32, error) {
	if _, err := e.Wait(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

// Users returns every snapshot user in load order.
func (e *Engine) Users(ctx context.Context) ([]models.User, error) {
	snap, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Users, nil
}

// UserAt returns the index-th loaded user. index is a position, not a userID.
func (e *Engine) UserAt(ctx context.Context, index string) (models.User, error) {
	snap, err := e.Wait(ctx)
	if err != nil {
		return models.User{}, err
	}

	i, err := strconv.Atoi(index)
	if err != nil {
		return models.User{}, models.NewValidationError(fmt.Sprintf("getUser id %q is not an integer position", index))
	}
	if i < 0 || i >= len(snap.Users) {
		return models.User{}, models.NewIndexOutOfRangeError("User", i, len(snap.Users))
	}
	return snap.Users[i], nil
}

// Posts returns every snapshot post in load order.
func (e *Engine) Posts(ctx context.Context) ([]models.Post, error) {
	snap, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Posts, nil
}

// PostsOf returns the snapshot posts of userID.
func (e *Engine) PostsOf(ctx context.Context, userID string) ([]models.Post, error) {
	snap, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PostsFor(userID), nil
}

// NewPost is the input of AddPost. Content is optional.
type NewPost struct {
	Title   string
	Content *string
	Date    string
	UserID  string
}

// AddPost writes the post, then re-reads every post of the owner from the store.
// The returned slice therefore contains the new row; the snapshot is untouched.
func (e *Engine) AddPost(ctx context.Context, in NewPost) ([]models.Post, error) {
	if _, err := e.Wait(ctx); err != nil {
		return nil, err
	}

	owner := storeID(in.UserID)
	record := database.Row{
		"title":  in.Title,
		"date":   in.Date,
		"userID": owner,
	}
	if in.Content != nil {
		record["content"] = *in.Content
	}

	if err := e.store.Insert(ctx, database.PostsTable, record); err != nil {
		return nil, err
	}

	return e.posts.All().Where("userID", owner).Run(ctx)
}

// storeID passes integer identifiers to the store as integers so typed
// drivers compare them against integer columns.
func storeID(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

package graph

import (
	"context"

	"blogql/internal/models"
	"blogql/internal/observability"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	engine *Engine
}

// observe counts a root field call and its error code, if any.
func observe(field string, errp *error) {
	code := ""
	if *errp != nil {
		code = models.CodeOf(*errp)
	}
	observability.ObserveResolver(field, code)
}

// collect maps items into a fresh slice owned by the caller.
func collect[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func (r *Resolver) Test(ctx context.Context) (_ *int32, err error) {
	defer observe("test", &err)

	v, err := r.engine.Test(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Resolver) GetUsers(ctx context.Context) (_ []*userResolver, err error) {
	defer observe("getUsers", &err)

	users, err := r.engine.Users(ctx)
	if err != nil {
		return nil, err
	}
	return collect(users, r.user), nil
}

func (r *Resolver) GetUser(ctx context.Context, args struct{ ID graphql.ID }) (_ *userResolver, err error) {
	defer observe("getUser", &err)

	user, err := r.engine.UserAt(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return r.user(user), nil
}

func (r *Resolver) GetPosts(ctx context.Context) (_ []*postResolver, err error) {
	defer observe("getPosts", &err)

	posts, err := r.engine.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return collect(posts, newPostResolver), nil
}

type addPostArgs struct {
	Title   string
	Content *string
	Date    string
	UserID  graphql.ID
}

func (r *Resolver) AddPost(ctx context.Context, args addPostArgs) (_ *[]*postResolver, err error) {
	defer observe("addPost", &err)

	posts, err := r.engine.AddPost(ctx, NewPost{
		Title:   args.Title,
		Content: args.Content,
		Date:    args.Date,
		UserID:  string(args.UserID),
	})
	if err != nil {
		return nil, err
	}
	out := collect(posts, newPostResolver)
	return &out, nil
}

func (r *Resolver) user(u models.User) *userResolver {
	return &userResolver{engine: r.engine, user: u}
}

type userResolver struct {
	engine *Engine
	user   models.User
}

// ID maps the userID column onto the id field.
func (u *userResolver) ID() (graphql.ID, error) {
	if u.user.UserID == nil {
		return "", models.NewSchemaConformanceError("User", "id")
	}
	return graphql.ID(*u.user.UserID), nil
}

func (u *userResolver) Username() (string, error) {
	return required("User", "username", u.user.Username)
}

// Password is served as stored, in cleartext.
func (u *userResolver) Password() (string, error) {
	return required("User", "password", u.user.Password)
}

func (u *userResolver) Description() (string, error) {
	return required("User", "description", u.user.Description)
}

func (u *userResolver) Pfp() *string {
	return u.user.Pfp
}

// Posts reads the startup snapshot, so posts added since then are absent.
func (u *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	if u.user.UserID == nil {
		return []*postResolver{}, nil
	}
	posts, err := u.engine.PostsOf(ctx, *u.user.UserID)
	if err != nil {
		return nil, err
	}
	return collect(posts, newPostResolver), nil
}

type postResolver struct {
	post models.Post
}

func newPostResolver(p models.Post) *postResolver {
	return &postResolver{post: p}
}

func (p *postResolver) PostID() (graphql.ID, error) {
	id, err := required("Post", "postID", p.post.PostID)
	return graphql.ID(id), err
}

func (p *postResolver) Title() (string, error) {
	return required("Post", "title", p.post.Title)
}

func (p *postResolver) UserID() (graphql.ID, error) {
	id, err := required("Post", "userID", p.post.UserID)
	return graphql.ID(id), err
}

func (p *postResolver) Date() *string {
	return p.post.Date
}

func (p *postResolver) Content() *string {
	return p.post.Content
}

// required unwraps a non-null column or reports the missing value.
func required(typeName, field string, v *string) (string, error) {
	if v == nil {
		return "", models.NewSchemaConformanceError(typeName, field)
	}
	return *v, nil
}

package repository

import (
	"blogql/internal/database"
	"blogql/internal/models"
)

// PostRepository reads the Posts table.
type PostRepository interface {
	All() Query[models.Post]
}

type postRepository struct {
	store database.Store
}

// NewPostRepository creates a new post repository
func NewPostRepository(store database.Store) PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) All() Query[models.Post] {
	return newQuery(r.store, database.PostsTable, decodePost)
}

func decodePost(row database.Row) models.Post {
	return models.Post{
		PostID:  column(row, "postID"),
		Title:   column(row, "title"),
		Content: column(row, "content"),
		Date:    column(row, "date"),
		UserID:  column(row, "userID"),
	}
}

package repository

import (
	"blogql/internal/database"
	"blogql/internal/models"
)

// UserRepository reads the Users table.
type UserRepository interface {
	All() Query[models.User]
}

type userRepository struct {
	store database.Store
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(store database.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) All() Query[models.User] {
	return newQuery(r.store, database.UsersTable, decodeUser)
}

func decodeUser(row database.Row) models.User {
	return models.User{
		UserID:      column(row, "userID"),
		Username:    column(row, "username"),
		Password:    column(row, "password"),
		Description: column(row, "description"),
		Pfp:         column(row, "pfp"),
	}
}

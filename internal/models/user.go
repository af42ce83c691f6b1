// Package models contains the blog's row models and application errors.
package models

// User is one row of the Users table. A column the store did not return,
// or returned as NULL, stays nil.
type User struct {
	UserID      *string
	Username    *string
	Password    *string
	Description *string
	Pfp         *string
}

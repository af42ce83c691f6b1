package repository

import (
	"blogql/internal/database"

	"github.com/spf13/cast"
)

// column returns the row value as text. A missing column, a NULL, or a value
// that has no text form yields nil so non-null checks further up can see it.
func column(row database.Row, name string) *string {
	raw, ok := row[name]
	if !ok || raw == nil {
		return nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil
	}
	return &s
}

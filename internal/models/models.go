package models

import (
	"strconv"
	"time"
)

// User represents a person record exposed through the GraphQL API.
type User struct {
	ID        int64
	Name      string `validate:"notblank"`
	Email     string `validate:"notblank"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Persisted reports whether the record has been assigned an identifier by a store.
func (u User) Persisted() bool {
	return u.ID > 0
}

// ParseUserID converts an external identifier into a user id.
func ParseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormatUserID renders a user id in its external form.
func FormatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

package domain

import "time"

// User represents a single record in the user collection.
// UpdatedAt stays nil until the record is mutated for the first time.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

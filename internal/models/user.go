package models

import "time"

// User represents a registered user profile.
//
// The ID is assigned at registration and immutable; it is the sole handle
// for all subsequent operations on the account.
type User struct {
	ID        string    `json:"id" db:"id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	About     *string   `json:"about,omitempty" db:"about"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

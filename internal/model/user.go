// Package model defines domain entities for the application.
package model

import "time"

// User represents an anonymous visitor identified by a session token.
// Users are created on first contact and never mutated or deleted.
type User struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

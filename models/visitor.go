package models

import "time"

// Visitor is one logged public page hit. The session ID comes from a cookie
// so repeat hits by the same browser share it.
type Visitor struct {
	ID         int       `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Path       string    `json:"path" db:"path"`
	Lang       string    `json:"lang" db:"lang"`
	UserAgent  *string   `json:"user_agent,omitempty" db:"user_agent"`
	RemoteAddr *string   `json:"remote_addr,omitempty" db:"remote_addr"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

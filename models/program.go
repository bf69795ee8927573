package models

import "time"

// Program is a travel package shown on the public site.
type Program struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Summary     *string   `json:"summary,omitempty" db:"summary"`
	Description *string   `json:"description,omitempty" db:"description"`
	PriceCents  int       `json:"price_cents" db:"price_cents"`
	Days        int       `json:"days" db:"days"`
	Position    int       `json:"position" db:"position"`
	Published   bool      `json:"published" db:"published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}

package models

import "time"

type Review struct {
	ID         int       `json:"id" db:"id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Rating     int       `json:"rating" db:"rating"`
	Body       string    `json:"body" db:"body"`
	Published  bool      `json:"published" db:"published"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

package models

import "time"

// Standing is one ranked row per (tournament, team) pair, scoped to a pool.
// It is always recomputed from scratch out of that pool's finished matches,
// never patched incrementally.
type Standing struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	TeamID        int       `json:"team_id" db:"team_id"`
	Pool          string    `json:"pool" db:"pool"`
	Played        int       `json:"played" db:"played"`
	Wins          int       `json:"wins" db:"wins"`
	Draws         int       `json:"draws" db:"draws"`
	Losses        int       `json:"losses" db:"losses"`
	PointsFor     int       `json:"points_for" db:"points_for"`
	PointsAgainst int       `json:"points_against" db:"points_against"`
	PointsDiff    int       `json:"points_diff" db:"points_diff"`
	Points        int       `json:"points" db:"points"`
	Rank          int       `json:"rank" db:"rank"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

package models

import "time"

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentPoolStage TournamentStatus = "pool_stage"
	TournamentKnockout  TournamentStatus = "knockout"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Location  *string          `json:"location,omitempty" db:"location"`
	StartDate *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty" db:"end_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Teams     []*Team     `json:"teams,omitempty" db:"-"`
	Matches   []*Match    `json:"matches,omitempty" db:"-"`
	Standings []*Standing `json:"standings,omitempty" db:"-"`
}

package models

import "time"

type RoundType string

const (
	RoundPool         RoundType = "pool"
	RoundQuarterfinal RoundType = "quarterfinal"
	RoundSemifinal    RoundType = "semifinal"
	RoundThirdPlace   RoundType = "third_place"
	RoundFinal        RoundType = "final"
)

// IsKnockout reports whether the round belongs to the elimination stage.
func (r RoundType) IsKnockout() bool {
	return r != RoundPool && r != ""
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
)

// Match is a single fixture, either inside a pool or in the knockout stage.
// Team slots are nullable: knockout matches start empty and are filled by
// advancement, never by direct pairing.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	RoundType    RoundType   `json:"round_type" db:"round_type"`
	Pool         *string     `json:"pool,omitempty" db:"pool"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Slot         int         `json:"slot" db:"slot"`
	TeamAID      *int        `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID      *int        `json:"team_b_id,omitempty" db:"team_b_id"`
	ScoreA       int         `json:"score_a" db:"score_a"`
	ScoreB       int         `json:"score_b" db:"score_b"`
	Status       MatchStatus `json:"status" db:"status"`
	Court        *string     `json:"court,omitempty" db:"court"`
	ScheduledAt  *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}

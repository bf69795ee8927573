package services

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses in the
// handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors.
	ErrValidationFailed       = errors.New("validation failed")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrInvalidPoolLabel       = errors.New("pool label must be a single letter")
	ErrNegativeScore          = errors.New("scores must be non-negative")
	ErrInvalidMatchStatus     = errors.New("invalid match status provided")
	ErrKnockoutPairingDenied  = errors.New("knockout match teams are set by advancement, not directly")
	ErrProgramTitleRequired   = errors.New("program title is required")
	ErrReservationIncomplete  = errors.New("reservation requires a name, an email, and a party size of at least 1")
	ErrReviewIncomplete       = errors.New("review requires an author name and a body")
	ErrReviewRatingOutOfRange = errors.New("review rating must be between 1 and 5")
	ErrInvalidStatusValue     = errors.New("invalid status value provided")

	// Authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// Entity-specific not-found errors.
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReviewNotFound      = errors.New("review not found")

	// Conflicts.
	ErrTeamNameConflict = errors.New("team name is already registered for this tournament")
)

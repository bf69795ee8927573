package models

import "time"

type ReservationStatus string

const (
	ReservationNew       ReservationStatus = "new"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCanceled  ReservationStatus = "canceled"
)

type Reservation struct {
	ID        int               `json:"id" db:"id"`
	ProgramID int               `json:"program_id" db:"program_id"`
	FullName  string            `json:"full_name" db:"full_name"`
	Email     string            `json:"email" db:"email"`
	Phone     *string           `json:"phone,omitempty" db:"phone"`
	PartySize int               `json:"party_size" db:"party_size"`
	StartDate *time.Time        `json:"start_date,omitempty" db:"start_date"`
	Message   *string           `json:"message,omitempty" db:"message"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	Program *Program `json:"program,omitempty" db:"-"`
}

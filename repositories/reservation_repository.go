package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/petanque-voyages/booking-system/models"
)

var (
	ErrReservationNotFound       = errors.New("reservation not found")
	ErrReservationProgramInvalid = errors.New("reservation references an unknown program")
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id int) (*models.Reservation, error)
	List(ctx context.Context, status *models.ReservationStatus) ([]*models.Reservation, error)
	UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

const reservationColumns = `id, program_id, full_name, email, phone, party_size, start_date, message, status, created_at`

func (r *postgresReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	query := `
		INSERT INTO reservations (program_id, full_name, email, phone, party_size, start_date, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		reservation.ProgramID, reservation.FullName, reservation.Email, reservation.Phone,
		reservation.PartySize, reservation.StartDate, reservation.Message, reservation.Status,
	).Scan(&reservation.ID, &reservation.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Constraint == "reservations_program_id_fkey" {
			return ErrReservationProgramInvalid
		}
	}
	return err
}

func (r *postgresReservationRepository) scanReservation(rowScanner interface{ Scan(...interface{}) error }) (*models.Reservation, error) {
	var res models.Reservation
	err := rowScanner.Scan(
		&res.ID, &res.ProgramID, &res.FullName, &res.Email, &res.Phone,
		&res.PartySize, &res.StartDate, &res.Message, &res.Status, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *postgresReservationRepository) GetByID(ctx context.Context, id int) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresReservationRepository) List(ctx context.Context, status *models.ReservationStatus) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		res, scanErr := r.scanReservation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *postgresReservationRepository) UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

func (r *postgresReservationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM reservations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

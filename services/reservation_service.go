package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
)

type ReservationInput struct {
	ProgramID int     `json:"program_id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	PartySize int     `json:"party_size"`
	StartDate *string `json:"start_date"`
	Message   *string `json:"message"`
}

type ReservationService interface {
	Submit(ctx context.Context, input ReservationInput) (*models.Reservation, error)
	List(ctx context.Context, status *models.ReservationStatus) ([]*models.Reservation, error)
	UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) (*models.Reservation, error)
	Delete(ctx context.Context, id int) error
}

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	programRepo     repositories.ProgramRepository
}

func NewReservationService(
	reservationRepo repositories.ReservationRepository,
	programRepo repositories.ProgramRepository,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		programRepo:     programRepo,
	}
}

func (s *reservationService) Submit(ctx context.Context, input ReservationInput) (*models.Reservation, error) {
	if strings.TrimSpace(input.FullName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.PartySize < 1 {
		return nil, ErrReservationIncomplete
	}
	if _, err := s.programRepo.GetByID(ctx, input.ProgramID); err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	reservation := &models.Reservation{
		ProgramID: input.ProgramID,
		FullName:  strings.TrimSpace(input.FullName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     input.Phone,
		PartySize: input.PartySize,
		Message:   input.Message,
		Status:    models.ReservationNew,
	}
	if err := parseDate(input.StartDate, &reservation.StartDate); err != nil {
		return nil, fmt.Errorf("%w: invalid start_date", ErrValidationFailed)
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		if errors.Is(err, repositories.ErrReservationProgramInvalid) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, status *models.ReservationStatus) ([]*models.Reservation, error) {
	reservations, err := s.reservationRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	// Resolve program titles for the back-office table.
	programs, err := s.programRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	index := make(map[int]*models.Program, len(programs))
	for _, p := range programs {
		index[p.ID] = p
	}
	for _, r := range reservations {
		r.Program = index[r.ProgramID]
	}
	return reservations, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) (*models.Reservation, error) {
	switch status {
	case models.ReservationNew, models.ReservationConfirmed, models.ReservationCanceled:
	default:
		return nil, ErrInvalidStatusValue
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) Delete(ctx context.Context, id int) error {
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	return nil
}

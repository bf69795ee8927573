package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
)

type fakeProgramRepo struct {
	programs []*models.Program
}

func (f *fakeProgramRepo) Create(_ context.Context, p *models.Program) error {
	p.ID = len(f.programs) + 1
	f.programs = append(f.programs, p)
	return nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id int) (*models.Program, error) {
	for _, p := range f.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrProgramNotFound
}

func (f *fakeProgramRepo) List(_ context.Context, publishedOnly bool) ([]*models.Program, error) {
	out := make([]*models.Program, 0)
	for _, p := range f.programs {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProgramRepo) Update(_ context.Context, _ *models.Program) error           { return nil }
func (f *fakeProgramRepo) UpdateImageKey(_ context.Context, _ int, _ *string) error    { return nil }
func (f *fakeProgramRepo) Delete(_ context.Context, _ int) error                       { return nil }

type fakeReservationRepo struct {
	reservations []*models.Reservation
}

func (f *fakeReservationRepo) Create(_ context.Context, r *models.Reservation) error {
	r.ID = len(f.reservations) + 1
	f.reservations = append(f.reservations, r)
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int) (*models.Reservation, error) {
	for _, r := range f.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repositories.ErrReservationNotFound
}

func (f *fakeReservationRepo) List(_ context.Context, status *models.ReservationStatus) ([]*models.Reservation, error) {
	out := make([]*models.Reservation, 0)
	for _, r := range f.reservations {
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int, status models.ReservationStatus) error {
	for _, r := range f.reservations {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return repositories.ErrReservationNotFound
}

func (f *fakeReservationRepo) Delete(_ context.Context, id int) error {
	for i, r := range f.reservations {
		if r.ID == id {
			f.reservations = append(f.reservations[:i], f.reservations[i+1:]...)
			return nil
		}
	}
	return repositories.ErrReservationNotFound
}

func newReservationFixture(t *testing.T) (ReservationService, *fakeProgramRepo, *fakeReservationRepo) {
	t.Helper()
	programRepo := &fakeProgramRepo{}
	reservationRepo := &fakeReservationRepo{}
	require.NoError(t, programRepo.Create(context.Background(), &models.Program{Title: "Provence et Pétanque", Published: true}))
	return NewReservationService(reservationRepo, programRepo), programRepo, reservationRepo
}

func TestReservationSubmit(t *testing.T) {
	t.Run("valid request starts as new", func(t *testing.T) {
		svc, _, _ := newReservationFixture(t)
		reservation, err := svc.Submit(context.Background(), ReservationInput{
			ProgramID: 1,
			FullName:  "Claire Dupont",
			Email:     "claire@example.com",
			PartySize: 4,
			StartDate: strPtr("2026-05-10"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ReservationNew, reservation.Status)
		require.NotNil(t, reservation.StartDate)
		assert.Equal(t, "2026-05-10", reservation.StartDate.Format("2006-01-02"))
	})

	t.Run("unknown program rejected", func(t *testing.T) {
		svc, _, _ := newReservationFixture(t)
		_, err := svc.Submit(context.Background(), ReservationInput{
			ProgramID: 99, FullName: "X", Email: "x@example.com", PartySize: 1,
		})
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})

	t.Run("incomplete request rejected", func(t *testing.T) {
		svc, _, _ := newReservationFixture(t)
		cases := []ReservationInput{
			{ProgramID: 1, Email: "x@example.com", PartySize: 2},
			{ProgramID: 1, FullName: "X", PartySize: 2},
			{ProgramID: 1, FullName: "X", Email: "x@example.com", PartySize: 0},
		}
		for i, input := range cases {
			_, err := svc.Submit(context.Background(), input)
			assert.ErrorIs(t, err, ErrReservationIncomplete, "case %d", i)
		}
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		svc, _, _ := newReservationFixture(t)
		_, err := svc.Submit(context.Background(), ReservationInput{
			ProgramID: 1, FullName: "X", Email: "x@example.com", PartySize: 1,
			StartDate: strPtr("10/05/2026"),
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestReservationStatusFlow(t *testing.T) {
	svc, _, _ := newReservationFixture(t)
	reservation, err := svc.Submit(context.Background(), ReservationInput{
		ProgramID: 1, FullName: "Claire Dupont", Email: "claire@example.com", PartySize: 2,
	})
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(context.Background(), reservation.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, confirmed.Status)

	_, err = svc.UpdateStatus(context.Background(), reservation.ID, models.ReservationStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatusValue)

	status := models.ReservationConfirmed
	list, err := svc.List(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Program, "program resolved for the back office")
	assert.Equal(t, "Provence et Pétanque", list[0].Program.Title)
}

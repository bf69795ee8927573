package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
	"github.com/petanque-voyages/booking-system/storage"
)

type RegisterTeamInput struct {
	Name        string  `json:"name"`
	CountryCode *string `json:"country_code"`
}

type UpdateTeamInput struct {
	Name        *string `json:"name"`
	CountryCode *string `json:"country_code"`
	Pool        *string `json:"pool"`
	Seed        *int    `json:"seed"`
	Confirmed   *bool   `json:"confirmed"`
}

type TeamService interface {
	Register(ctx context.Context, tournamentID int, input RegisterTeamInput) (*models.Team, error)
	Update(ctx context.Context, tournamentID, teamID int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, tournamentID, teamID int) error
	List(ctx context.Context, tournamentID int) ([]*models.Team, error)
	UploadPhoto(ctx context.Context, tournamentID, teamID int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
	}
}

func (s *teamService) Register(ctx context.Context, tournamentID int, input RegisterTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	team := &models.Team{
		TournamentID: tournamentID,
		Name:         strings.TrimSpace(input.Name),
		CountryCode:  input.CountryCode,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	return team, nil
}

func (s *teamService) Update(ctx context.Context, tournamentID, teamID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.getTeamInTournament(ctx, tournamentID, teamID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = strings.TrimSpace(*input.Name)
	}
	if input.CountryCode != nil {
		team.CountryCode = input.CountryCode
	}
	if input.Pool != nil {
		pool := strings.ToUpper(strings.TrimSpace(*input.Pool))
		if pool == "" {
			team.Pool = nil
		} else {
			if len(pool) != 1 || pool[0] < 'A' || pool[0] > 'Z' {
				return nil, ErrInvalidPoolLabel
			}
			team.Pool = &pool
		}
	}
	if input.Seed != nil {
		team.Seed = input.Seed
	}
	if input.Confirmed != nil {
		team.Confirmed = *input.Confirmed
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, tournamentID, teamID int) error {
	if _, err := s.getTeamInTournament(ctx, tournamentID, teamID); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) List(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	for _, t := range teams {
		s.resolvePhotoURL(t)
	}
	return teams, nil
}

func (s *teamService) UploadPhoto(ctx context.Context, tournamentID, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.getTeamInTournament(ctx, tournamentID, teamID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	key := fmt.Sprintf("teams/%d/%d/photo", tournamentID, teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team photo: %w", err)
	}
	if err := s.teamRepo.UpdatePhotoKey(ctx, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist team photo key: %w", err)
	}
	team.PhotoKey = &result.Key
	s.resolvePhotoURL(team)
	return team, nil
}

func (s *teamService) getTeamInTournament(ctx context.Context, tournamentID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *teamService) resolvePhotoURL(team *models.Team) {
	if team.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.PhotoKey)
	if url != "" {
		team.PhotoURL = &url
	}
}

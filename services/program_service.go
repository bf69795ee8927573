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

type ProgramInput struct {
	Title       string  `json:"title"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	PriceCents  int     `json:"price_cents"`
	Days        int     `json:"days"`
	Position    int     `json:"position"`
	Published   bool    `json:"published"`
}

type ProgramService interface {
	Create(ctx context.Context, input ProgramInput) (*models.Program, error)
	GetByID(ctx context.Context, id int) (*models.Program, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Program, error)
	Update(ctx context.Context, id int, input ProgramInput) (*models.Program, error)
	Delete(ctx context.Context, id int) error
	UploadImage(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Program, error)
}

type programService struct {
	programRepo repositories.ProgramRepository
	uploader    storage.FileUploader
}

func NewProgramService(programRepo repositories.ProgramRepository, uploader storage.FileUploader) ProgramService {
	return &programService{programRepo: programRepo, uploader: uploader}
}

func (s *programService) validate(input ProgramInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrProgramTitleRequired
	}
	if input.PriceCents < 0 || input.Days < 0 {
		return fmt.Errorf("%w: price and duration must be non-negative", ErrValidationFailed)
	}
	return nil
}

func (s *programService) Create(ctx context.Context, input ProgramInput) (*models.Program, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	program := &models.Program{
		Title:       strings.TrimSpace(input.Title),
		Summary:     input.Summary,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Days:        input.Days,
		Position:    input.Position,
		Published:   input.Published,
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return program, nil
}

func (s *programService) GetByID(ctx context.Context, id int) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	s.resolveImageURL(program)
	return program, nil
}

func (s *programService) List(ctx context.Context, publishedOnly bool) ([]*models.Program, error) {
	programs, err := s.programRepo.List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	for _, p := range programs {
		s.resolveImageURL(p)
	}
	return programs, nil
}

func (s *programService) Update(ctx context.Context, id int, input ProgramInput) (*models.Program, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	program, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	program.Title = strings.TrimSpace(input.Title)
	program.Summary = input.Summary
	program.Description = input.Description
	program.PriceCents = input.PriceCents
	program.Days = input.Days
	program.Position = input.Position
	program.Published = input.Published

	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to update program %d: %w", id, err)
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, id int) error {
	program, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.programRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	// The image is cleaned up after the row is gone; a failed delete only
	// leaves an orphan object behind.
	if program.ImageKey != nil && s.uploader != nil {
		_ = s.uploader.Delete(ctx, *program.ImageKey)
	}
	return nil
}

func (s *programService) UploadImage(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Program, error) {
	program, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	key := fmt.Sprintf("programs/%d/cover", id)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload program image: %w", err)
	}
	if err := s.programRepo.UpdateImageKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist program image key: %w", err)
	}
	program.ImageKey = &result.Key
	s.resolveImageURL(program)
	return program, nil
}

func (s *programService) resolveImageURL(program *models.Program) {
	if program.ImageKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*program.ImageKey)
	if url != "" {
		program.ImageURL = &url
	}
}

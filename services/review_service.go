package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
)

type ReviewInput struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Body       string `json:"body"`
}

type ReviewService interface {
	Submit(ctx context.Context, input ReviewInput) (*models.Review, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Review, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.Review, error)
	Delete(ctx context.Context, id int) error
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) Submit(ctx context.Context, input ReviewInput) (*models.Review, error) {
	if strings.TrimSpace(input.AuthorName) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, ErrReviewIncomplete
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingOutOfRange
	}

	// New reviews wait for moderation before showing up publicly.
	review := &models.Review{
		AuthorName: strings.TrimSpace(input.AuthorName),
		Rating:     input.Rating,
		Body:       strings.TrimSpace(input.Body),
		Published:  false,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context, publishedOnly bool) ([]*models.Review, error) {
	reviews, err := s.reviewRepo.List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) SetPublished(ctx context.Context, id int, published bool) (*models.Review, error) {
	if err := s.reviewRepo.SetPublished(ctx, id, published); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id int) error {
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

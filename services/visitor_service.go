package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
)

type VisitorStats struct {
	Last7Days  int `json:"last_7_days"`
	Last30Days int `json:"last_30_days"`
}

type VisitorService interface {
	Record(ctx context.Context, visitor *models.Visitor)
	List(ctx context.Context, limit, offset int) ([]*models.Visitor, error)
	Stats(ctx context.Context) (*VisitorStats, error)
}

type visitorService struct {
	visitorRepo repositories.VisitorRepository
	logger      *slog.Logger
}

func NewVisitorService(visitorRepo repositories.VisitorRepository, logger *slog.Logger) VisitorService {
	return &visitorService{visitorRepo: visitorRepo, logger: logger}
}

// Record is fire-and-forget: a failed insert must never break a page view.
func (s *visitorService) Record(ctx context.Context, visitor *models.Visitor) {
	if err := s.visitorRepo.Create(ctx, visitor); err != nil {
		s.logger.Warn("failed to record visitor hit", "path", visitor.Path, "error", err)
	}
}

func (s *visitorService) List(ctx context.Context, limit, offset int) ([]*models.Visitor, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	visitors, err := s.visitorRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	return visitors, nil
}

func (s *visitorService) Stats(ctx context.Context) (*VisitorStats, error) {
	week, err := s.visitorRepo.CountSince(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly visitors: %w", err)
	}
	month, err := s.visitorRepo.CountSince(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly visitors: %w", err)
	}
	return &VisitorStats{Last7Days: week, Last30Days: month}, nil
}

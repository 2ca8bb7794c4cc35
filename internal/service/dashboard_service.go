package service

import (
	"context"
	"fmt"

	"turbo-warehouse/internal/domain"
	"turbo-warehouse/internal/repository"
)

// DashboardService computes derived dashboard views
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type dashboardService struct {
	statsRepo repository.StatsRepository
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo}
}

// Stats returns the dashboard roll-up for one consistent snapshot of the
// store. An empty store yields all-zero counts, not an error.
func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.statsRepo.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return stats, nil
}

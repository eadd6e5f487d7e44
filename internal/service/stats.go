package service

import (
	"context"
	"fmt"

	"nexticket/internal/models"
)

// StatsService serves the dashboard aggregates.
type StatsService struct {
	stats StatsStore
	users *UserService
}

func NewStatsService(stats StatsStore, users *UserService) *StatsService {
	return &StatsService{stats: stats, users: users}
}

// Vendor returns a vendor's revenue overview; admins may inspect any vendor.
func (s *StatsService) Vendor(ctx context.Context, actor, email string) (*models.VendorStats, error) {
	if actor != email {
		if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	} else if _, err := s.users.RequireRole(ctx, actor, models.RoleVendor); err != nil {
		return nil, err
	}

	stats, err := s.stats.VendorStats(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor stats: %w", err)
	}

	return stats, nil
}

func (s *StatsService) Admin(ctx context.Context, actor string) (*models.AdminStats, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	stats, err := s.stats.AdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}

	return stats, nil
}

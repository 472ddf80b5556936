package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yominosekai/kshot/store"
)

// CollectOverallStats computes the global dashboard scalars from both
// stores. The six queries are independent and run concurrently; any failure
// fails the whole request so the caller never sees a half-populated result.
func (s *Service) CollectOverallStats(ctx context.Context) (*OverallStats, error) {
	stats := &OverallStats{}
	active := true
	published := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.store.CountLoginEvents(gctx, &store.FindLoginEvent{})
		if err != nil {
			return Internal("failed to count login events", err)
		}
		stats.TotalLogins = count
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountMaterialViews(gctx, &store.FindMaterialView{})
		if err != nil {
			return Internal("failed to count material views", err)
		}
		stats.TotalViews = count
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountUsers(gctx, &store.FindUser{IsActive: &active})
		if err != nil {
			return Internal("failed to count users", err)
		}
		stats.TotalUsers = count
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountUsersWithMinLoginDays(gctx, activeUserMinLoginDays)
		if err != nil {
			return Internal("failed to count active users", err)
		}
		stats.ActiveUserCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountMaterials(gctx, &store.FindMaterial{IsPublished: &published})
		if err != nil {
			return Internal("failed to count materials", err)
		}
		stats.TotalMaterials = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.TotalUsers > 0 {
		stats.AvgViewsPerUser = stats.TotalViews / stats.TotalUsers
	}
	return stats, nil
}

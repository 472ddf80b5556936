package analytics

import (
	"context"
)

// BuildDistribution classifies every active user with at least one view into
// a 3-tier activity level.
//
// Both counts are normalized against the cohort maximum, so the tiers are
// relative: scaling every user's counts by the same positive factor leaves
// every assignment unchanged.
func (s *Service) BuildDistribution(ctx context.Context) ([]*UserDistributionEntry, error) {
	rows, err := s.store.ListViewerAggregates(ctx)
	if err != nil {
		return nil, Internal("failed to load viewer aggregates", err)
	}

	var maxViews, maxUnique int64 = 1, 1
	for _, row := range rows {
		if row.ViewCount > maxViews {
			maxViews = row.ViewCount
		}
		if row.UniqueMaterialCount > maxUnique {
			maxUnique = row.UniqueMaterialCount
		}
	}

	entries := make([]*UserDistributionEntry, 0, len(rows))
	for _, row := range rows {
		viewRatio := float64(row.ViewCount) / float64(maxViews)
		uniqueRatio := float64(row.UniqueMaterialCount) / float64(maxUnique)
		score := (viewRatio + uniqueRatio) / 2

		level := ActivityLevelLow
		switch {
		case score > tierHighThreshold:
			level = ActivityLevelHigh
		case score > tierMediumThreshold:
			level = ActivityLevelMedium
		}

		entries = append(entries, &UserDistributionEntry{
			UserSID:             row.UserSID,
			DisplayName:         row.DisplayName,
			ViewCount:           row.ViewCount,
			UniqueMaterialCount: row.UniqueMaterialCount,
			ActivityLevel:       level,
		})
	}
	return entries, nil
}

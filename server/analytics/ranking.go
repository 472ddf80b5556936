package analytics

import (
	"context"
	"sort"

	"github.com/yominosekai/kshot/store"
)

// BuildRankings computes one UserActivityStats per active user, sorted by
// view count descending.
//
// Shared-store metrics are fetched with one batched grouped query per metric
// and joined in memory, never one query per user. The local store is the
// bounded exception: it is a per-device login log orders of magnitude
// smaller than the shared store, so per-user count queries against it are
// acceptable.
func (s *Service) BuildRankings(ctx context.Context) ([]*UserActivityStats, error) {
	active := true
	users, err := s.store.ListUsers(ctx, &store.FindUser{IsActive: &active})
	if err != nil {
		return nil, Internal("failed to list active users", err)
	}

	sids := make([]string, 0, len(users))
	for _, user := range users {
		sids = append(sids, user.SID)
	}

	viewCounts, err := s.store.CountViewsByUser(ctx, sids, nil)
	if err != nil {
		return nil, Internal("failed to count views by user", err)
	}
	uniqueCounts, err := s.store.CountDistinctMaterialsByUser(ctx, sids, nil)
	if err != nil {
		return nil, Internal("failed to count distinct materials by user", err)
	}
	uploadCounts, err := s.store.CountMaterialsByCreator(ctx, sids)
	if err != nil {
		return nil, Internal("failed to count uploads by user", err)
	}

	seriesRange := store.DateRange{Start: s.daysAgo(rankingSeriesDays - 1), End: s.today()}
	seriesRows, err := s.store.ListViewCountsByUserDate(ctx, sids, &seriesRange)
	if err != nil {
		return nil, Internal("failed to load daily view series", err)
	}
	series := dailySeriesPerUser(seriesRows, seriesRange)

	materialRows, err := s.store.ListViewCountsByUserMaterial(ctx, sids, nil)
	if err != nil {
		return nil, Internal("failed to load per-material view counts", err)
	}
	topMaterials := topNPerUser(materialRows, topMaterialsLimit)

	rankings := make([]*UserActivityStats, 0, len(users))
	for _, user := range users {
		sid := user.SID

		loginCount, err := s.store.CountLoginEvents(ctx, &store.FindLoginEvent{UserSID: &sid})
		if err != nil {
			return nil, Internal("failed to count login events", err)
		}
		activeDays, err := s.store.CountDistinctLoginDates(ctx, sid, nil)
		if err != nil {
			return nil, Internal("failed to count active days", err)
		}

		dailySeries := series[sid]
		if dailySeries == nil {
			dailySeries = emptyDailySeries(seriesRange)
		}
		top := topMaterials[sid]
		if top == nil {
			top = []TopMaterial{}
		}

		rankings = append(rankings, &UserActivityStats{
			UserSID:               sid,
			DisplayName:           user.DisplayName,
			LoginCount:            loginCount,
			ViewCount:             countOf(viewCounts, sid),
			UniqueMaterialCount:   countOf(uniqueCounts, sid),
			UploadedMaterialCount: countOf(uploadCounts, sid),
			ActiveDayCount:        activeDays,
			DailySeries:           dailySeries,
			TopMaterials:          top,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].ViewCount > rankings[j].ViewCount
	})
	return rankings, nil
}

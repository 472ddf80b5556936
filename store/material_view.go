package store

import (
	"context"

	"github.com/yominosekai/kshot/server/timeutil"
)

// MaterialView is one view event in the shared store. The ingestion path
// dedupes views to at most one row per (user, material, day); this store
// relies on that invariant but does not enforce it.
type MaterialView struct {
	MaterialID string
	UserSID    string
	Date       timeutil.LocalDate
}

// DateRange bounds a query on local calendar dates, inclusive on both ends.
type DateRange struct {
	Start timeutil.LocalDate
	End   timeutil.LocalDate
}

// FindMaterialView is the filter for view queries.
type FindMaterialView struct {
	UserSID *string
	Range   *DateRange
}

// UserDateViewCount is one row of a per-user per-date grouped view count.
type UserDateViewCount struct {
	UserSID string
	Date    timeutil.LocalDate
	Count   int64
}

// UserMaterialViewCount is one row of a per-user per-material grouped view count.
type UserMaterialViewCount struct {
	UserSID    string
	MaterialID string
	Title      string
	Count      int64
}

// DateViewCount is one row of a per-date grouped view count for a single user.
type DateViewCount struct {
	Date  timeutil.LocalDate
	Count int64
}

// MaterialViewCount is one row of a per-material grouped view count for a single user.
type MaterialViewCount struct {
	MaterialID string
	Title      string
	Count      int64
}

// ViewerAggregate is one row of the distribution query: per-user view totals
// joined with the user's display name, restricted to users with at least one view.
type ViewerAggregate struct {
	UserSID             string
	DisplayName         string
	ViewCount           int64
	UniqueMaterialCount int64
}

func (s *Store) CountMaterialViews(ctx context.Context, find *FindMaterialView) (int64, error) {
	return s.shared.CountMaterialViews(ctx, find)
}

// CountViewsByUser returns view counts grouped by user for the given SIDs,
// optionally bounded by a date range.
func (s *Store) CountViewsByUser(ctx context.Context, userSIDs []string, r *DateRange) (map[string]int64, error) {
	return s.shared.CountViewsByUser(ctx, userSIDs, r)
}

// CountDistinctMaterialsByUser returns distinct viewed-material counts
// grouped by user for the given SIDs.
func (s *Store) CountDistinctMaterialsByUser(ctx context.Context, userSIDs []string, r *DateRange) (map[string]int64, error) {
	return s.shared.CountDistinctMaterialsByUser(ctx, userSIDs, r)
}

// ListViewCountsByUserDate returns per-user per-date view counts for the
// given SIDs within the range, one row per (user, date) with activity.
func (s *Store) ListViewCountsByUserDate(ctx context.Context, userSIDs []string, r *DateRange) ([]*UserDateViewCount, error) {
	return s.shared.ListViewCountsByUserDate(ctx, userSIDs, r)
}

// ListViewCountsByUserMaterial returns per-user per-material view counts for
// the given SIDs ordered by count descending. Per-user truncation is the
// caller's job; SQL-level per-group limits are not assumed available.
func (s *Store) ListViewCountsByUserMaterial(ctx context.Context, userSIDs []string, r *DateRange) ([]*UserMaterialViewCount, error) {
	return s.shared.ListViewCountsByUserMaterial(ctx, userSIDs, r)
}

// ListViewerAggregates returns one aggregate row per active user with at
// least one recorded view.
func (s *Store) ListViewerAggregates(ctx context.Context) ([]*ViewerAggregate, error) {
	return s.shared.ListViewerAggregates(ctx)
}

// ListViewCountsByDate returns per-date view counts for one user within the range.
func (s *Store) ListViewCountsByDate(ctx context.Context, userSID string, r *DateRange) ([]*DateViewCount, error) {
	return s.shared.ListViewCountsByDate(ctx, userSID, r)
}

// ListTopMaterials returns the top materials by view count for one user
// within the range, at most limit rows.
func (s *Store) ListTopMaterials(ctx context.Context, userSID string, r *DateRange, limit int) ([]*MaterialViewCount, error) {
	return s.shared.ListTopMaterials(ctx, userSID, r, limit)
}

// Package analytics is the activity aggregation engine: it reads the shared
// store (materials, views, users) and the per-device local store (login
// events) and computes dashboard aggregates. Everything here is read-only
// and recomputed per request; nothing is persisted.
package analytics

import (
	"context"
	"time"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

// Policy constants. These encode product policy, not algorithmic necessity;
// they are deliberately compiled in rather than configurable so every
// deployment reports comparable numbers.
const (
	// activeUserMinLoginDays is the distinct-login-day threshold for the
	// global "active user" metric.
	activeUserMinLoginDays = 5

	// tierHighThreshold and tierMediumThreshold split the activity score
	// into high / medium / low.
	tierHighThreshold   = 0.7
	tierMediumThreshold = 0.4

	// topMaterialsLimit bounds the per-user material breakdown.
	topMaterialsLimit = 10

	// rankingSeriesDays is the daily-series window attached to each
	// ranking entry.
	rankingSeriesDays = 30
)

// Store is the read surface the engine needs from the two datastores.
// *store.Store satisfies it; tests substitute an in-memory fake.
type Store interface {
	// Shared store.
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error)
	CountUsers(ctx context.Context, find *store.FindUser) (int64, error)
	CountMaterials(ctx context.Context, find *store.FindMaterial) (int64, error)
	ListMaterials(ctx context.Context, find *store.FindMaterial) ([]*store.Material, error)
	CountMaterialsByCreator(ctx context.Context, userSIDs []string) (map[string]int64, error)
	CountMaterialViews(ctx context.Context, find *store.FindMaterialView) (int64, error)
	CountViewsByUser(ctx context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error)
	CountDistinctMaterialsByUser(ctx context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error)
	ListViewCountsByUserDate(ctx context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserDateViewCount, error)
	ListViewCountsByUserMaterial(ctx context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserMaterialViewCount, error)
	ListViewerAggregates(ctx context.Context) ([]*store.ViewerAggregate, error)
	ListViewCountsByDate(ctx context.Context, userSID string, r *store.DateRange) ([]*store.DateViewCount, error)
	ListTopMaterials(ctx context.Context, userSID string, r *store.DateRange, limit int) ([]*store.MaterialViewCount, error)

	// Local store.
	CountLoginEvents(ctx context.Context, find *store.FindLoginEvent) (int64, error)
	CountDistinctLoginDates(ctx context.Context, userSID string, r *store.DateRange) (int64, error)
	CountUsersWithMinLoginDays(ctx context.Context, minDays int) (int64, error)
}

// Service computes activity aggregates over the two stores.
type Service struct {
	store Store
	now   func() time.Time // overridable in tests
}

// NewService creates an analytics service on top of the given store.
func NewService(st Store) *Service {
	return &Service{store: st, now: time.Now}
}

func (s *Service) today() timeutil.LocalDate {
	return timeutil.ToLocalDate(s.now())
}

func (s *Service) daysAgo(n int) timeutil.LocalDate {
	return s.today().AddDays(-n)
}

// OverallStats are the global dashboard scalars.
type OverallStats struct {
	TotalLogins     int64 `json:"totalLogins"`
	TotalViews      int64 `json:"totalViews"`
	AvgViewsPerUser int64 `json:"avgViewsPerUser"`
	ActiveUserCount int64 `json:"activeUserCount"`
	TotalMaterials  int64 `json:"totalMaterials"`
	TotalUsers      int64 `json:"totalUsers"`
}

// DailyPoint is one day of the legacy daily series: view count only.
type DailyPoint struct {
	Date  timeutil.LocalDate `json:"date"`
	Count int64              `json:"count"`
}

// ActivityBucket is one slot of a bucketed time series. Date is the bucket's
// start date at the chosen granularity. Counts are per-bucket, not cumulative.
type ActivityBucket struct {
	Date        timeutil.LocalDate `json:"date"`
	ViewCount   int64              `json:"viewCount"`
	UploadCount int64              `json:"uploadCount"`
}

// TopMaterial is one entry of a per-user material breakdown.
type TopMaterial struct {
	MaterialID string `json:"materialId"`
	Title      string `json:"title"`
	ViewCount  int64  `json:"viewCount"`
}

// UserActivityStats is the per-user aggregate: either one ranking row over
// all time, or a single user's window-scoped drill-down.
type UserActivityStats struct {
	UserSID               string           `json:"userSid"`
	DisplayName           string           `json:"displayName"`
	LoginCount            int64            `json:"loginCount"`
	ViewCount             int64            `json:"viewCount"`
	UniqueMaterialCount   int64            `json:"uniqueMaterialCount"`
	UploadedMaterialCount int64            `json:"uploadedMaterialCount"`
	ActiveDayCount        int64            `json:"activeDayCount"`
	DailySeries           []DailyPoint     `json:"dailySeries,omitempty"`
	BucketedSeries        []ActivityBucket `json:"bucketedSeries,omitempty"`
	TopMaterials          []TopMaterial    `json:"topMaterials"`
}

// ActivityLevel is the 3-tier classification of a user's activity.
type ActivityLevel string

const (
	ActivityLevelHigh   ActivityLevel = "high"
	ActivityLevelMedium ActivityLevel = "medium"
	ActivityLevelLow    ActivityLevel = "low"
)

// UserDistributionEntry is one row of the activity distribution.
type UserDistributionEntry struct {
	UserSID             string        `json:"userSid"`
	DisplayName         string        `json:"displayName"`
	ViewCount           int64         `json:"viewCount"`
	UniqueMaterialCount int64         `json:"uniqueMaterialCount"`
	ActivityLevel       ActivityLevel `json:"activityLevel"`
}

package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

// Period selects the date window of an individual drill-down.
type Period string

const (
	PeriodOneMonth    Period = "1month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodOneYear     Period = "1year"
	PeriodCustom      Period = "custom"
)

// Granularity is the bucket size of a time series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// IndividualRequest are the parameters of a per-user drill-down.
type IndividualRequest struct {
	UserSID     string
	Period      Period
	StartDate   string // "2006-01-02", required for PeriodCustom
	EndDate     string // "2006-01-02", required for PeriodCustom
	Granularity Granularity // empty selects automatically from window length
}

var periodDays = map[Period]int{
	PeriodOneMonth:    30,
	PeriodThreeMonths: 90,
	PeriodSixMonths:   180,
	PeriodOneYear:     365,
}

// resolveWindow turns the period parameters into an inclusive date range.
func (s *Service) resolveWindow(req *IndividualRequest) (store.DateRange, error) {
	if req.Period == PeriodCustom {
		if req.StartDate == "" || req.EndDate == "" {
			return store.DateRange{}, InvalidArgument("startDate and endDate are required for a custom period")
		}
		start, err := timeutil.ParseLocalDate(req.StartDate)
		if err != nil {
			return store.DateRange{}, InvalidArgument(err.Error())
		}
		end, err := timeutil.ParseLocalDate(req.EndDate)
		if err != nil {
			return store.DateRange{}, InvalidArgument(err.Error())
		}
		if end.Before(start) {
			return store.DateRange{}, InvalidArgument("endDate must not be before startDate")
		}
		return store.DateRange{Start: start, End: end}, nil
	}

	days, ok := periodDays[req.Period]
	if !ok {
		return store.DateRange{}, InvalidArgument("unknown period " + string(req.Period))
	}
	return store.DateRange{Start: s.daysAgo(days), End: s.today()}, nil
}

// resolveGranularity picks the bucket size: the explicit one when given,
// otherwise derived from the window span so short windows get finer
// resolution. The span is measured as end minus start in days, which keeps
// the 30/90/365-day preset periods on daily/weekly/monthly respectively.
// Both comparisons are inclusive on the low side.
func resolveGranularity(explicit Granularity, r store.DateRange) (Granularity, error) {
	switch explicit {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return explicit, nil
	case "":
	default:
		return "", InvalidArgument("unknown granularity " + string(explicit))
	}

	span := r.Start.DaysUntil(r.End)
	switch {
	case span <= 30:
		return GranularityDaily, nil
	case span <= 90:
		return GranularityWeekly, nil
	default:
		return GranularityMonthly, nil
	}
}

// BuildIndividualStats computes the window-scoped aggregate for one user:
// five scalar totals, the bucketed series at the resolved granularity, and
// the top-10 material breakdown. An unknown user is a NotFound before any
// aggregation runs.
func (s *Service) BuildIndividualStats(ctx context.Context, req *IndividualRequest) (*UserActivityStats, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{SID: &req.UserSID})
	if err != nil {
		return nil, Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	window, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}
	granularity, err := resolveGranularity(req.Granularity, window)
	if err != nil {
		return nil, err
	}

	sid := user.SID
	stats := &UserActivityStats{
		UserSID:      sid,
		DisplayName:  user.DisplayName,
		TopMaterials: []TopMaterial{},
	}

	// Scalar totals over the window.
	stats.LoginCount, err = s.store.CountLoginEvents(ctx, &store.FindLoginEvent{UserSID: &sid, Range: &window})
	if err != nil {
		return nil, Internal("failed to count login events", err)
	}
	stats.ViewCount, err = s.store.CountMaterialViews(ctx, &store.FindMaterialView{UserSID: &sid, Range: &window})
	if err != nil {
		return nil, Internal("failed to count material views", err)
	}
	uniqueCounts, err := s.store.CountDistinctMaterialsByUser(ctx, []string{sid}, &window)
	if err != nil {
		return nil, Internal("failed to count distinct materials", err)
	}
	stats.UniqueMaterialCount = countOf(uniqueCounts, sid)
	stats.ActiveDayCount, err = s.store.CountDistinctLoginDates(ctx, sid, &window)
	if err != nil {
		return nil, Internal("failed to count active days", err)
	}

	// Uploads are keyed by absolute creation timestamp. Fetch a slightly
	// widened range and re-filter on the converted local date, so an upload
	// made late in the evening local time lands on the right calendar day.
	uploads, err := s.fetchUploadDates(ctx, sid, window)
	if err != nil {
		return nil, err
	}
	for _, count := range uploads {
		stats.UploadedMaterialCount += count
	}

	switch granularity {
	case GranularityDaily:
		stats.BucketedSeries, err = s.buildDailyBuckets(ctx, sid, window, uploads)
		if err != nil {
			return nil, err
		}
		// Legacy projection: older consumers read {date, count} with the
		// view count only. Derived from the bucketed series, daily only.
		stats.DailySeries = make([]DailyPoint, 0, len(stats.BucketedSeries))
		for _, bucket := range stats.BucketedSeries {
			stats.DailySeries = append(stats.DailySeries, DailyPoint{Date: bucket.Date, Count: bucket.ViewCount})
		}
	case GranularityWeekly:
		stats.BucketedSeries, err = s.buildWeeklyBuckets(ctx, sid, window, uploads)
		if err != nil {
			return nil, err
		}
	case GranularityMonthly:
		stats.BucketedSeries, err = s.buildMonthlyBuckets(ctx, sid, window, uploads)
		if err != nil {
			return nil, err
		}
	}

	top, err := s.store.ListTopMaterials(ctx, sid, &window, topMaterialsLimit)
	if err != nil {
		return nil, Internal("failed to load top materials", err)
	}
	for _, row := range top {
		stats.TopMaterials = append(stats.TopMaterials, TopMaterial{
			MaterialID: row.MaterialID,
			Title:      row.Title,
			ViewCount:  row.Count,
		})
	}

	return stats, nil
}

// fetchUploadDates returns the user's published-material upload counts keyed
// by local calendar date, restricted to the window. The store query runs on
// the absolute creation timestamp widened by half a day on both sides; rows
// are then re-filtered by their converted local date against the exact
// window bounds.
func (s *Service) fetchUploadDates(ctx context.Context, sid string, window store.DateRange) (map[timeutil.LocalDate]int64, error) {
	published := true
	after := window.Start.Time().Add(-12 * time.Hour).Unix()
	before := window.End.AddDays(1).Time().Add(12 * time.Hour).Unix()

	materials, err := s.store.ListMaterials(ctx, &store.FindMaterial{
		CreatedBy:       &sid,
		IsPublished:     &published,
		CreatedTsAfter:  &after,
		CreatedTsBefore: &before,
	})
	if err != nil {
		return nil, Internal("failed to list uploaded materials", err)
	}

	uploads := make(map[timeutil.LocalDate]int64)
	for _, material := range materials {
		date := timeutil.ToLocalDate(time.Unix(material.CreatedTs, 0))
		if date.Before(window.Start) || date.After(window.End) {
			continue
		}
		uploads[date]++
	}
	return uploads, nil
}

// buildDailyBuckets enumerates one bucket per calendar date. The bucket set
// is the union of dates with view activity, dates with upload activity, and
// every date in the window, so an idle window still yields a contiguous
// zero-filled series.
func (s *Service) buildDailyBuckets(ctx context.Context, sid string, window store.DateRange, uploads map[timeutil.LocalDate]int64) ([]ActivityBucket, error) {
	rows, err := s.store.ListViewCountsByDate(ctx, sid, &window)
	if err != nil {
		return nil, Internal("failed to load daily view counts", err)
	}
	views := make(map[timeutil.LocalDate]int64, len(rows))
	for _, row := range rows {
		views[row.Date] += row.Count
	}

	dates := make(map[timeutil.LocalDate]struct{})
	for d := window.Start; !d.After(window.End); d = d.AddDays(1) {
		dates[d] = struct{}{}
	}
	for d := range views {
		dates[d] = struct{}{}
	}
	for d := range uploads {
		dates[d] = struct{}{}
	}

	ordered := make([]timeutil.LocalDate, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	buckets := make([]ActivityBucket, 0, len(ordered))
	for _, d := range ordered {
		buckets = append(buckets, ActivityBucket{
			Date:        d,
			ViewCount:   views[d],
			UploadCount: uploads[d],
		})
	}
	return buckets, nil
}

// buildWeeklyBuckets cuts the window into 7-day buckets anchored at the
// window's start date (not calendar-week aligned); the final bucket is
// clipped to the window end.
func (s *Service) buildWeeklyBuckets(ctx context.Context, sid string, window store.DateRange, uploads map[timeutil.LocalDate]int64) ([]ActivityBucket, error) {
	days := window.Start.DaysUntil(window.End) + 1
	bucketCount := (days + 6) / 7

	buckets := make([]ActivityBucket, 0, bucketCount)
	for i := 0; i < bucketCount; i++ {
		start, endExclusive := timeutil.WeekBounds(i, window.Start)
		end := timeutil.MinDate(endExclusive.AddDays(-1), window.End)

		bucket, err := s.buildRangedBucket(ctx, sid, store.DateRange{Start: start, End: end}, uploads)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// buildMonthlyBuckets cuts the window into local calendar months; the first
// and last bucket may be partial months clipped to the window bounds.
func (s *Service) buildMonthlyBuckets(ctx context.Context, sid string, window store.DateRange, uploads map[timeutil.LocalDate]int64) ([]ActivityBucket, error) {
	buckets := make([]ActivityBucket, 0)
	for start := window.Start; !start.After(window.End); start = start.NextMonthStart() {
		_, monthEndExclusive := timeutil.MonthBounds(start)
		end := timeutil.MinDate(monthEndExclusive.AddDays(-1), window.End)

		bucket, err := s.buildRangedBucket(ctx, sid, store.DateRange{Start: start, End: end}, uploads)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// buildRangedBucket computes one bucket: the view count is a single ranged
// count query on the calendar-date key; the upload count re-filters the
// already-fetched, locally-dated upload map against the bucket bounds.
func (s *Service) buildRangedBucket(ctx context.Context, sid string, r store.DateRange, uploads map[timeutil.LocalDate]int64) (ActivityBucket, error) {
	viewCount, err := s.store.CountMaterialViews(ctx, &store.FindMaterialView{UserSID: &sid, Range: &r})
	if err != nil {
		return ActivityBucket{}, Internal("failed to count views for bucket", err)
	}

	var uploadCount int64
	for date, count := range uploads {
		if !date.Before(r.Start) && !date.After(r.End) {
			uploadCount += count
		}
	}

	return ActivityBucket{Date: r.Start, ViewCount: viewCount, UploadCount: uploadCount}, nil
}

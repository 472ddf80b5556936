package analytics

import (
	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

// Batched grouped queries come back as maps or flat row sets keyed by user
// SID. The helpers here join them in memory, defaulting every missing metric
// to zero instead of issuing per-user queries.

// countOf returns the count for sid, or zero when the grouped query had no
// row for that user.
func countOf(m map[string]int64, sid string) int64 {
	return m[sid]
}

// topNPerUser truncates count-descending (user, material) rows to at most n
// materials per user, preserving the global ordering within each user. The
// SQL side returns one ungrouped-by-limit row set because per-group LIMIT
// is not assumed available.
func topNPerUser(rows []*store.UserMaterialViewCount, n int) map[string][]TopMaterial {
	result := make(map[string][]TopMaterial)
	for _, row := range rows {
		list := result[row.UserSID]
		if len(list) >= n {
			continue
		}
		result[row.UserSID] = append(list, TopMaterial{
			MaterialID: row.MaterialID,
			Title:      row.Title,
			ViewCount:  row.Count,
		})
	}
	return result
}

// dailySeriesPerUser turns flat (user, date, count) rows into one contiguous
// zero-filled daily series per user covering the whole range.
func dailySeriesPerUser(rows []*store.UserDateViewCount, r store.DateRange) map[string][]DailyPoint {
	counts := make(map[string]map[timeutil.LocalDate]int64)
	for _, row := range rows {
		m := counts[row.UserSID]
		if m == nil {
			m = make(map[timeutil.LocalDate]int64)
			counts[row.UserSID] = m
		}
		m[row.Date] += row.Count
	}

	days := r.Start.DaysUntil(r.End) + 1
	result := make(map[string][]DailyPoint, len(counts))
	for sid, m := range counts {
		series := make([]DailyPoint, 0, days)
		for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
			series = append(series, DailyPoint{Date: d, Count: m[d]})
		}
		result[sid] = series
	}
	return result
}

// emptyDailySeries is the zero-filled series for users without any views in
// the range.
func emptyDailySeries(r store.DateRange) []DailyPoint {
	days := r.Start.DaysUntil(r.End) + 1
	series := make([]DailyPoint, 0, days)
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		series = append(series, DailyPoint{Date: d, Count: 0})
	}
	return series
}

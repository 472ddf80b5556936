package analytics

import (
	"context"
	"time"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

const (
	defaultTrendMonths = 12
	maxTrendMonths     = 60
)

// TrendBucket is one month of the materials trend. Count is the cumulative
// number of published materials created up to the end of the month: a
// running total, unlike the per-bucket counts of the individual activity
// series. The two semantics are intentionally different and must not be
// unified.
type TrendBucket struct {
	Month string `json:"month"` // "2006-01"
	Count int64  `json:"count"`
}

// BuildMaterialTrend reports how the published-material corpus has grown
// over the last months (default 12) as a cumulative monthly series.
func (s *Service) BuildMaterialTrend(ctx context.Context, months int) ([]TrendBucket, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	if months > maxTrendMonths {
		months = maxTrendMonths
	}

	// One fetch bounded by the final cutoff; buckets accumulate in memory.
	// Month boundaries are local (+09:00) midnights, so comparing the
	// absolute creation timestamp against the absolute boundary instant
	// needs no date-string conversion.
	end := s.today().NextMonthStart()
	cutoff := end.Time().Unix() - 1
	published := true
	materials, err := s.store.ListMaterials(ctx, &store.FindMaterial{
		IsPublished:     &published,
		CreatedTsBefore: &cutoff,
	})
	if err != nil {
		return nil, Internal("failed to list materials", err)
	}

	firstMonth := s.today().StartOfMonth().AddMonths(-(months - 1))

	// Materials created before the first bucket seed the running total.
	var runningTotal int64
	perMonth := make(map[string]int64)
	for _, material := range materials {
		created := time.Unix(material.CreatedTs, 0)
		if created.Before(firstMonth.Time()) {
			runningTotal++
			continue
		}
		perMonth[monthKey(created)]++
	}

	buckets := make([]TrendBucket, 0, months)
	for m := firstMonth; m.Before(end); m = m.NextMonthStart() {
		runningTotal += perMonth[m.String()[:7]]
		buckets = append(buckets, TrendBucket{Month: m.String()[:7], Count: runningTotal})
	}
	return buckets, nil
}

func monthKey(t time.Time) string {
	return t.In(timeutil.JST).Format("2006-01")
}

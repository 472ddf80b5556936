package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yominosekai/kshot/store"
)

func seedDistribution(f *fakeStore, sid string, views, uniqueMaterials int) {
	f.users = append(f.users, &store.User{SID: sid, DisplayName: sid, IsActive: true})
	day := 1
	for i := 0; i < views; i++ {
		material := "shared"
		if i < uniqueMaterials {
			material = sid + "-m" + string(rune('a'+i))
		}
		f.views = append(f.views, &store.MaterialView{MaterialID: material, UserSID: sid, Date: date(2024, 1, day)})
		day++
	}
}

func distributionLevels(t *testing.T, entries []*UserDistributionEntry) map[string]ActivityLevel {
	t.Helper()
	levels := make(map[string]ActivityLevel, len(entries))
	for _, e := range entries {
		levels[e.UserSID] = e.ActivityLevel
	}
	return levels
}

func TestBuildDistribution(t *testing.T) {
	f := &fakeStore{}
	seedDistribution(f, "heavy", 20, 10)
	seedDistribution(f, "medium", 12, 5)
	seedDistribution(f, "light", 2, 1)
	// no views at all: excluded from the distribution entirely
	f.users = append(f.users, &store.User{SID: "silent", DisplayName: "silent", IsActive: true})

	svc := newTestService(f, date(2024, 3, 10))
	entries, err := svc.BuildDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	levels := distributionLevels(t, entries)
	require.Equal(t, ActivityLevelHigh, levels["heavy"], "the cohort maximum scores 1.0")
	require.Equal(t, ActivityLevelMedium, levels["medium"])
	require.Equal(t, ActivityLevelLow, levels["light"])
	require.NotContains(t, levels, "silent")
}

func TestBuildDistributionScaleInvariance(t *testing.T) {
	build := func(scale int) map[string]ActivityLevel {
		f := &fakeStore{}
		seedDistribution(f, "a", 10*scale, 10*scale)
		seedDistribution(f, "b", 6*scale, 6*scale)
		seedDistribution(f, "c", 1*scale, 1*scale)

		svc := newTestService(f, date(2024, 3, 10))
		entries, err := svc.BuildDistribution(context.Background())
		require.NoError(t, err)
		return distributionLevels(t, entries)
	}

	require.Equal(t, build(1), build(3), "scaling every count by the same factor keeps every tier")
}

func TestBuildDistributionSingleUser(t *testing.T) {
	f := &fakeStore{}
	seedDistribution(f, "only", 1, 1)

	svc := newTestService(f, date(2024, 3, 10))
	entries, err := svc.BuildDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// a lone user is their own maximum on both axes
	require.Equal(t, ActivityLevelHigh, entries[0].ActivityLevel)
}

func TestBuildDistributionEmpty(t *testing.T) {
	svc := newTestService(&fakeStore{}, date(2024, 3, 10))
	entries, err := svc.BuildDistribution(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yominosekai/kshot/store"
)

func TestBuildRankings(t *testing.T) {
	f := &fakeStore{
		users: []*store.User{
			{SID: "alice", DisplayName: "Alice", IsActive: true},
			{SID: "bob", DisplayName: "Bob", IsActive: true},
			{SID: "idle", DisplayName: "Idle", IsActive: true},
			{SID: "gone", DisplayName: "Gone", IsActive: false},
		},
		materials: []*store.Material{
			{ID: "m1", Title: "Intro", CreatedBy: "alice", IsPublished: true},
			{ID: "m2", Title: "Guide", CreatedBy: "alice", IsPublished: true},
		},
	}
	// bob views m1 three times on distinct days, alice views both once.
	f.views = []*store.MaterialView{
		{MaterialID: "m1", UserSID: "bob", Date: date(2024, 3, 1)},
		{MaterialID: "m1", UserSID: "bob", Date: date(2024, 3, 2)},
		{MaterialID: "m1", UserSID: "bob", Date: date(2024, 3, 3)},
		{MaterialID: "m1", UserSID: "alice", Date: date(2024, 3, 1)},
		{MaterialID: "m2", UserSID: "alice", Date: date(2024, 3, 2)},
	}
	f.logins = []*store.LoginEvent{
		{UserSID: "alice", Date: date(2024, 3, 1)},
		{UserSID: "alice", Date: date(2024, 3, 1)},
		{UserSID: "bob", Date: date(2024, 3, 2)},
	}

	svc := newTestService(f, date(2024, 3, 10))
	rankings, err := svc.BuildRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 3, "inactive users are excluded")

	require.Equal(t, "bob", rankings[0].UserSID, "sorted by view count descending")
	require.Equal(t, "alice", rankings[1].UserSID)
	require.Equal(t, "idle", rankings[2].UserSID)

	bob := rankings[0]
	require.Equal(t, int64(3), bob.ViewCount)
	require.Equal(t, int64(1), bob.UniqueMaterialCount)
	require.Equal(t, int64(0), bob.UploadedMaterialCount)
	require.Equal(t, int64(1), bob.LoginCount)
	require.Equal(t, int64(1), bob.ActiveDayCount)

	alice := rankings[1]
	require.Equal(t, int64(2), alice.ViewCount)
	require.Equal(t, int64(2), alice.UniqueMaterialCount)
	require.Equal(t, int64(2), alice.UploadedMaterialCount)
	require.Equal(t, int64(2), alice.LoginCount, "same-day duplicate logins still count as events")
	require.Equal(t, int64(1), alice.ActiveDayCount, "but only one distinct day")
}

func TestBuildRankingsDailySeries(t *testing.T) {
	f := &fakeStore{
		users: []*store.User{
			{SID: "alice", DisplayName: "Alice", IsActive: true},
			{SID: "idle", DisplayName: "Idle", IsActive: true},
		},
		views: []*store.MaterialView{
			{MaterialID: "m1", UserSID: "alice", Date: date(2024, 3, 10)},
			{MaterialID: "m1", UserSID: "alice", Date: date(2024, 3, 9)},
			// outside the 30-day series window
			{MaterialID: "m1", UserSID: "alice", Date: date(2023, 12, 1)},
		},
	}

	svc := newTestService(f, date(2024, 3, 10))
	rankings, err := svc.BuildRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	for _, entry := range rankings {
		require.Len(t, entry.DailySeries, rankingSeriesDays, "series covers exactly the window for every user")
		require.Equal(t, date(2024, 2, 10), entry.DailySeries[0].Date)
		require.Equal(t, date(2024, 3, 10), entry.DailySeries[len(entry.DailySeries)-1].Date)
	}

	alice := rankings[0]
	var sum int64
	for _, p := range alice.DailySeries {
		sum += p.Count
	}
	require.Equal(t, int64(2), sum, "the out-of-window view is not in the series")

	idle := rankings[1]
	for _, p := range idle.DailySeries {
		require.Zero(t, p.Count)
	}
	require.NotNil(t, idle.TopMaterials)
	require.Empty(t, idle.TopMaterials)
}

func TestBuildRankingsTopMaterialsTruncated(t *testing.T) {
	f := &fakeStore{
		users: []*store.User{{SID: "alice", DisplayName: "Alice", IsActive: true}},
	}
	// 12 materials, viewed a distinct number of times each.
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("m%02d", i)
		f.materials = append(f.materials, &store.Material{ID: id, Title: id, CreatedBy: "other", IsPublished: true})
		for j := 0; j <= i; j++ {
			f.views = append(f.views, &store.MaterialView{MaterialID: id, UserSID: "alice", Date: date(2024, 1, j+1)})
		}
	}

	svc := newTestService(f, date(2024, 3, 10))
	rankings, err := svc.BuildRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 1)

	top := rankings[0].TopMaterials
	require.Len(t, top, topMaterialsLimit)
	require.Equal(t, "m11", top[0].MaterialID, "most-viewed first")
	require.Equal(t, int64(12), top[0].ViewCount)
	for i := 1; i < len(top); i++ {
		require.GreaterOrEqual(t, top[i-1].ViewCount, top[i].ViewCount)
	}
}

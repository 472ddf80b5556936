package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

func date(y int, m time.Month, d int) timeutil.LocalDate {
	return timeutil.NewLocalDate(y, m, d)
}

func TestCollectOverallStats(t *testing.T) {
	f := &fakeStore{
		users: []*store.User{
			{SID: "alice", DisplayName: "Alice", IsActive: true},
			{SID: "bob", DisplayName: "Bob", IsActive: true},
			{SID: "carol", DisplayName: "Carol", IsActive: false},
		},
		materials: []*store.Material{
			{ID: "m1", Title: "Intro", CreatedBy: "alice", IsPublished: true},
			{ID: "m2", Title: "Draft", CreatedBy: "alice", IsPublished: false},
			{ID: "m3", Title: "Guide", CreatedBy: "bob", IsPublished: true},
		},
		views: []*store.MaterialView{
			{MaterialID: "m1", UserSID: "alice", Date: date(2024, 3, 1)},
			{MaterialID: "m1", UserSID: "bob", Date: date(2024, 3, 1)},
			{MaterialID: "m3", UserSID: "alice", Date: date(2024, 3, 2)},
			{MaterialID: "m3", UserSID: "bob", Date: date(2024, 3, 3)},
			{MaterialID: "m1", UserSID: "bob", Date: date(2024, 3, 4)},
		},
	}
	// alice logs in on 5 distinct days (with one same-day duplicate), bob on 2.
	for day := 1; day <= 5; day++ {
		f.logins = append(f.logins, &store.LoginEvent{UserSID: "alice", Date: date(2024, 3, day)})
	}
	f.logins = append(f.logins,
		&store.LoginEvent{UserSID: "alice", Date: date(2024, 3, 5)},
		&store.LoginEvent{UserSID: "bob", Date: date(2024, 3, 1)},
		&store.LoginEvent{UserSID: "bob", Date: date(2024, 3, 2)},
	)

	svc := newTestService(f, date(2024, 3, 10))
	stats, err := svc.CollectOverallStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(8), stats.TotalLogins)
	require.Equal(t, int64(5), stats.TotalViews)
	require.Equal(t, int64(2), stats.TotalUsers, "inactive users are excluded")
	require.Equal(t, int64(2), stats.TotalMaterials, "drafts are excluded")
	// alice has exactly 5 distinct login days; the duplicate on day 5 does
	// not push bob over the threshold.
	require.Equal(t, int64(1), stats.ActiveUserCount)
	require.Equal(t, int64(2), stats.AvgViewsPerUser, "5 views / 2 users, integer division")
}

func TestCollectOverallStatsNoUsers(t *testing.T) {
	svc := newTestService(&fakeStore{}, date(2024, 3, 10))
	stats, err := svc.CollectOverallStats(context.Background())
	require.NoError(t, err)

	require.Zero(t, stats.TotalViews)
	require.Zero(t, stats.TotalUsers)
	require.Zero(t, stats.AvgViewsPerUser, "no users must not divide by zero")
}

func TestCollectOverallStatsStoreFailure(t *testing.T) {
	f := &fakeStore{err: errors.New("disk gone")}
	svc := newTestService(f, date(2024, 3, 10))

	_, err := svc.CollectOverallStats(context.Background())
	require.Error(t, err)
	require.Equal(t, ErrCodeInternal, CodeOf(err))
}

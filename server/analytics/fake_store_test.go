package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

// fakeStore is an in-memory Store backed by plain slices. It reimplements
// the grouped queries with loops so service tests can reconcile aggregate
// output against raw seeded rows.
type fakeStore struct {
	users     []*store.User
	materials []*store.Material
	views     []*store.MaterialView
	logins    []*store.LoginEvent

	err error // when set, every method fails with it
}

func inRange(d timeutil.LocalDate, r *store.DateRange) bool {
	if r == nil {
		return true
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

func contains(sids []string, sid string) bool {
	for _, s := range sids {
		if s == sid {
			return true
		}
	}
	return false
}

func (f *fakeStore) GetUser(_ context.Context, find *store.FindUser) (*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if find.SID != nil && user.SID != *find.SID {
			continue
		}
		if find.IsActive != nil && user.IsActive != *find.IsActive {
			continue
		}
		return user, nil
	}
	return nil, nil
}

func (f *fakeStore) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*store.User
	for _, user := range f.users {
		if find.SID != nil && user.SID != *find.SID {
			continue
		}
		if find.IsActive != nil && user.IsActive != *find.IsActive {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeStore) CountUsers(ctx context.Context, find *store.FindUser) (int64, error) {
	users, err := f.ListUsers(ctx, find)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (f *fakeStore) matchMaterial(m *store.Material, find *store.FindMaterial) bool {
	if find.CreatedBy != nil && m.CreatedBy != *find.CreatedBy {
		return false
	}
	if find.IsPublished != nil && m.IsPublished != *find.IsPublished {
		return false
	}
	if find.CreatedTsAfter != nil && m.CreatedTs < *find.CreatedTsAfter {
		return false
	}
	if find.CreatedTsBefore != nil && m.CreatedTs > *find.CreatedTsBefore {
		return false
	}
	return true
}

func (f *fakeStore) CountMaterials(_ context.Context, find *store.FindMaterial) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, m := range f.materials {
		if f.matchMaterial(m, find) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListMaterials(_ context.Context, find *store.FindMaterial) ([]*store.Material, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*store.Material
	for _, m := range f.materials {
		if f.matchMaterial(m, find) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeStore) CountMaterialsByCreator(_ context.Context, userSIDs []string) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]int64)
	for _, m := range f.materials {
		if m.IsPublished && contains(userSIDs, m.CreatedBy) {
			result[m.CreatedBy]++
		}
	}
	return result, nil
}

func (f *fakeStore) CountMaterialViews(_ context.Context, find *store.FindMaterialView) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, v := range f.views {
		if find.UserSID != nil && v.UserSID != *find.UserSID {
			continue
		}
		if !inRange(v.Date, find.Range) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeStore) CountViewsByUser(_ context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]int64)
	for _, v := range f.views {
		if contains(userSIDs, v.UserSID) && inRange(v.Date, r) {
			result[v.UserSID]++
		}
	}
	return result, nil
}

func (f *fakeStore) CountDistinctMaterialsByUser(_ context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]map[string]struct{})
	for _, v := range f.views {
		if !contains(userSIDs, v.UserSID) || !inRange(v.Date, r) {
			continue
		}
		if seen[v.UserSID] == nil {
			seen[v.UserSID] = make(map[string]struct{})
		}
		seen[v.UserSID][v.MaterialID] = struct{}{}
	}
	result := make(map[string]int64)
	for sid, materials := range seen {
		result[sid] = int64(len(materials))
	}
	return result, nil
}

func (f *fakeStore) ListViewCountsByUserDate(_ context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserDateViewCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	type key struct {
		sid  string
		date timeutil.LocalDate
	}
	counts := make(map[key]int64)
	for _, v := range f.views {
		if contains(userSIDs, v.UserSID) && inRange(v.Date, r) {
			counts[key{v.UserSID, v.Date}]++
		}
	}
	var rows []*store.UserDateViewCount
	for k, c := range counts {
		rows = append(rows, &store.UserDateViewCount{UserSID: k.sid, Date: k.date, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserSID != rows[j].UserSID {
			return rows[i].UserSID < rows[j].UserSID
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

func (f *fakeStore) materialTitle(id string) string {
	for _, m := range f.materials {
		if m.ID == id {
			return m.Title
		}
	}
	return ""
}

func (f *fakeStore) ListViewCountsByUserMaterial(_ context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserMaterialViewCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	type key struct {
		sid      string
		material string
	}
	counts := make(map[key]int64)
	for _, v := range f.views {
		if contains(userSIDs, v.UserSID) && inRange(v.Date, r) {
			counts[key{v.UserSID, v.MaterialID}]++
		}
	}
	var rows []*store.UserMaterialViewCount
	for k, c := range counts {
		rows = append(rows, &store.UserMaterialViewCount{
			UserSID:    k.sid,
			MaterialID: k.material,
			Title:      f.materialTitle(k.material),
			Count:      c,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].MaterialID < rows[j].MaterialID
	})
	return rows, nil
}

func (f *fakeStore) ListViewerAggregates(_ context.Context) ([]*store.ViewerAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	views := make(map[string]int64)
	unique := make(map[string]map[string]struct{})
	for _, v := range f.views {
		views[v.UserSID]++
		if unique[v.UserSID] == nil {
			unique[v.UserSID] = make(map[string]struct{})
		}
		unique[v.UserSID][v.MaterialID] = struct{}{}
	}
	var rows []*store.ViewerAggregate
	for _, user := range f.users {
		if !user.IsActive || views[user.SID] == 0 {
			continue
		}
		rows = append(rows, &store.ViewerAggregate{
			UserSID:             user.SID,
			DisplayName:         user.DisplayName,
			ViewCount:           views[user.SID],
			UniqueMaterialCount: int64(len(unique[user.SID])),
		})
	}
	return rows, nil
}

func (f *fakeStore) ListViewCountsByDate(_ context.Context, userSID string, r *store.DateRange) ([]*store.DateViewCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[timeutil.LocalDate]int64)
	for _, v := range f.views {
		if v.UserSID == userSID && inRange(v.Date, r) {
			counts[v.Date]++
		}
	}
	var rows []*store.DateViewCount
	for d, c := range counts {
		rows = append(rows, &store.DateViewCount{Date: d, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (f *fakeStore) ListTopMaterials(_ context.Context, userSID string, r *store.DateRange, limit int) ([]*store.MaterialViewCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[string]int64)
	for _, v := range f.views {
		if v.UserSID == userSID && inRange(v.Date, r) {
			counts[v.MaterialID]++
		}
	}
	var rows []*store.MaterialViewCount
	for id, c := range counts {
		rows = append(rows, &store.MaterialViewCount{MaterialID: id, Title: f.materialTitle(id), Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].MaterialID < rows[j].MaterialID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) CountLoginEvents(_ context.Context, find *store.FindLoginEvent) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, l := range f.logins {
		if find.UserSID != nil && l.UserSID != *find.UserSID {
			continue
		}
		if !inRange(l.Date, find.Range) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeStore) CountDistinctLoginDates(_ context.Context, userSID string, r *store.DateRange) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	dates := make(map[timeutil.LocalDate]struct{})
	for _, l := range f.logins {
		if l.UserSID == userSID && inRange(l.Date, r) {
			dates[l.Date] = struct{}{}
		}
	}
	return int64(len(dates)), nil
}

func (f *fakeStore) CountUsersWithMinLoginDays(_ context.Context, minDays int) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	dates := make(map[string]map[timeutil.LocalDate]struct{})
	for _, l := range f.logins {
		if dates[l.UserSID] == nil {
			dates[l.UserSID] = make(map[timeutil.LocalDate]struct{})
		}
		dates[l.UserSID][l.Date] = struct{}{}
	}
	var count int64
	for _, d := range dates {
		if len(d) >= minDays {
			count++
		}
	}
	return count, nil
}

// newTestService pins the clock to noon of nowDate so preset windows are
// reproducible.
func newTestService(f *fakeStore, nowDate timeutil.LocalDate) *Service {
	svc := NewService(f)
	svc.now = func() time.Time { return nowDate.Time().Add(12 * time.Hour) }
	return svc
}

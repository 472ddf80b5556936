package store

import (
	"context"

	"github.com/yominosekai/kshot/server/timeutil"
)

// LoginEvent is one login in the per-device local store. The store may hold
// several rows per (user, day); distinct-day metrics dedupe on the date column.
type LoginEvent struct {
	UserSID string
	Date    timeutil.LocalDate
}

// FindLoginEvent is the filter for login event queries.
type FindLoginEvent struct {
	UserSID *string
	Range   *DateRange
}

func (s *Store) CountLoginEvents(ctx context.Context, find *FindLoginEvent) (int64, error) {
	return s.local.CountLoginEvents(ctx, find)
}

// CountDistinctLoginDates returns the number of distinct calendar days on
// which the user logged in, optionally bounded by a date range.
func (s *Store) CountDistinctLoginDates(ctx context.Context, userSID string, r *DateRange) (int64, error) {
	return s.local.CountDistinctLoginDates(ctx, userSID, r)
}

// CountUsersWithMinLoginDays returns the number of users with at least
// minDays distinct login dates. Duplicate same-day logins do not count twice.
func (s *Store) CountUsersWithMinLoginDays(ctx context.Context, minDays int) (int64, error) {
	return s.local.CountUsersWithMinLoginDays(ctx, minDays)
}

package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/store"
)

func (d *DB) CountLoginEvents(ctx context.Context, find *store.FindLoginEvent) (int64, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserSID; v != nil {
		where, args = append(where, "login_event.user_sid = "+placeholder(len(args)+1)), append(args, *v)
	}
	where, args = appendDateRange(where, args, "login_event.date", find.Range)

	query := `SELECT COUNT(*) FROM login_event WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count login events")
	}
	return count, nil
}

func (d *DB) CountDistinctLoginDates(ctx context.Context, userSID string, r *store.DateRange) (int64, error) {
	where, args := []string{"user_sid = " + placeholder(1)}, []any{userSID}
	where, args = appendDateRange(where, args, "date", r)

	query := `SELECT COUNT(DISTINCT date) FROM login_event WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count distinct login dates")
	}
	return count, nil
}

func (d *DB) CountUsersWithMinLoginDays(ctx context.Context, minDays int) (int64, error) {
	// Duplicate same-day logins collapse under COUNT(DISTINCT date).
	query := `
		SELECT COUNT(*) FROM (
			SELECT user_sid
			FROM login_event
			GROUP BY user_sid
			HAVING COUNT(DISTINCT date) >= ` + placeholder(1) + `
		)`

	var count int64
	if err := d.db.QueryRowContext(ctx, query, minDays).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count users with minimum login days")
	}
	return count, nil
}

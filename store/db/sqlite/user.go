package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/store"
)

func (d *DB) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	list, err := d.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.SID; v != nil {
		where, args = append(where, "user.sid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsActive; v != nil {
		where, args = append(where, "user.is_active = "+placeholder(len(args)+1)), append(args, boolValue(*v))
	}

	query := `
		SELECT sid, display_name, is_active, created_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY user.sid ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		user := &store.User{}
		var isActive int
		if err := rows.Scan(&user.SID, &user.DisplayName, &isActive, &user.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		user.IsActive = isActive != 0
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate users")
	}
	return list, nil
}

func (d *DB) CountUsers(ctx context.Context, find *store.FindUser) (int64, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.SID; v != nil {
		where, args = append(where, "user.sid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsActive; v != nil {
		where, args = append(where, "user.is_active = "+placeholder(len(args)+1)), append(args, boolValue(*v))
	}

	query := `SELECT COUNT(*) FROM user WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

// boolValue maps Go bools onto the INTEGER columns SQLite stores them in.
func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

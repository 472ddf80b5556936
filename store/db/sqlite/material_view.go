package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
)

// appendDateRange narrows a query on a TEXT date column. Dates are stored as
// "2006-01-02", so lexicographic comparison matches calendar order.
func appendDateRange(where []string, args []any, column string, r *store.DateRange) ([]string, []any) {
	if r == nil {
		return where, args
	}
	where, args = append(where, column+" >= "+placeholder(len(args)+1)), append(args, r.Start.String())
	where, args = append(where, column+" <= "+placeholder(len(args)+1)), append(args, r.End.String())
	return where, args
}

func (d *DB) CountMaterialViews(ctx context.Context, find *store.FindMaterialView) (int64, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserSID; v != nil {
		where, args = append(where, "material_view.user_sid = "+placeholder(len(args)+1)), append(args, *v)
	}
	where, args = appendDateRange(where, args, "material_view.date", find.Range)

	query := `SELECT COUNT(*) FROM material_view WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count material views")
	}
	return count, nil
}

func (d *DB) CountViewsByUser(ctx context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error) {
	return d.countGroupedByUser(ctx, "COUNT(*)", userSIDs, r)
}

func (d *DB) CountDistinctMaterialsByUser(ctx context.Context, userSIDs []string, r *store.DateRange) (map[string]int64, error) {
	return d.countGroupedByUser(ctx, "COUNT(DISTINCT material_id)", userSIDs, r)
}

func (d *DB) countGroupedByUser(ctx context.Context, aggregate string, userSIDs []string, r *store.DateRange) (map[string]int64, error) {
	result := make(map[string]int64, len(userSIDs))
	if len(userSIDs) == 0 {
		return result, nil
	}

	err := queryChunked(userSIDs, func(chunk []string) error {
		in, args := inPlaceholders(chunk)
		where := []string{"user_sid IN (" + in + ")"}
		where, args = appendDateRange(where, args, "date", r)

		query := `
			SELECT user_sid, ` + aggregate + `
			FROM material_view
			WHERE ` + strings.Join(where, " AND ") + `
			GROUP BY user_sid`

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "failed to query grouped view counts")
		}
		defer rows.Close()

		for rows.Next() {
			var sid string
			var count int64
			if err := rows.Scan(&sid, &count); err != nil {
				return errors.Wrap(err, "failed to scan grouped view count")
			}
			result[sid] += count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *DB) ListViewCountsByUserDate(ctx context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserDateViewCount, error) {
	list := make([]*store.UserDateViewCount, 0)
	if len(userSIDs) == 0 {
		return list, nil
	}

	err := queryChunked(userSIDs, func(chunk []string) error {
		in, args := inPlaceholders(chunk)
		where := []string{"user_sid IN (" + in + ")"}
		where, args = appendDateRange(where, args, "date", r)

		query := `
			SELECT user_sid, date, COUNT(*)
			FROM material_view
			WHERE ` + strings.Join(where, " AND ") + `
			GROUP BY user_sid, date
			ORDER BY date ASC`

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "failed to query view counts by user and date")
		}
		defer rows.Close()

		for rows.Next() {
			row := &store.UserDateViewCount{}
			var date string
			if err := rows.Scan(&row.UserSID, &date, &row.Count); err != nil {
				return errors.Wrap(err, "failed to scan view count row")
			}
			parsed, err := timeutil.ParseLocalDate(date)
			if err != nil {
				return errors.Wrapf(err, "malformed date in material_view: %s", date)
			}
			row.Date = parsed
			list = append(list, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) ListViewCountsByUserMaterial(ctx context.Context, userSIDs []string, r *store.DateRange) ([]*store.UserMaterialViewCount, error) {
	list := make([]*store.UserMaterialViewCount, 0)
	if len(userSIDs) == 0 {
		return list, nil
	}

	err := queryChunked(userSIDs, func(chunk []string) error {
		in, args := inPlaceholders(chunk)
		where := []string{"material_view.user_sid IN (" + in + ")"}
		where, args = appendDateRange(where, args, "material_view.date", r)

		query := `
			SELECT material_view.user_sid, material_view.material_id, material.title, COUNT(*) AS view_count
			FROM material_view
			JOIN material ON material.id = material_view.material_id
			WHERE ` + strings.Join(where, " AND ") + `
			GROUP BY material_view.user_sid, material_view.material_id, material.title
			ORDER BY view_count DESC`

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "failed to query view counts by user and material")
		}
		defer rows.Close()

		for rows.Next() {
			row := &store.UserMaterialViewCount{}
			if err := rows.Scan(&row.UserSID, &row.MaterialID, &row.Title, &row.Count); err != nil {
				return errors.Wrap(err, "failed to scan view count row")
			}
			list = append(list, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	// Chunking breaks the global ordering; restore it so per-user top-N
	// truncation downstream sees rows count-descending.
	sort.SliceStable(list, func(i, j int) bool { return list[i].Count > list[j].Count })
	return list, nil
}

func (d *DB) ListViewerAggregates(ctx context.Context) ([]*store.ViewerAggregate, error) {
	query := `
		SELECT material_view.user_sid, user.display_name, COUNT(*), COUNT(DISTINCT material_view.material_id)
		FROM material_view
		JOIN user ON user.sid = material_view.user_sid
		WHERE user.is_active = 1
		GROUP BY material_view.user_sid, user.display_name
		ORDER BY COUNT(*) DESC`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query viewer aggregates")
	}
	defer rows.Close()

	list := make([]*store.ViewerAggregate, 0)
	for rows.Next() {
		row := &store.ViewerAggregate{}
		if err := rows.Scan(&row.UserSID, &row.DisplayName, &row.ViewCount, &row.UniqueMaterialCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan viewer aggregate")
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate viewer aggregates")
	}
	return list, nil
}

func (d *DB) ListViewCountsByDate(ctx context.Context, userSID string, r *store.DateRange) ([]*store.DateViewCount, error) {
	where, args := []string{"user_sid = " + placeholder(1)}, []any{userSID}
	where, args = appendDateRange(where, args, "date", r)

	query := `
		SELECT date, COUNT(*)
		FROM material_view
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY date
		ORDER BY date ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query view counts by date")
	}
	defer rows.Close()

	list := make([]*store.DateViewCount, 0)
	for rows.Next() {
		row := &store.DateViewCount{}
		var date string
		if err := rows.Scan(&date, &row.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan view count row")
		}
		parsed, err := timeutil.ParseLocalDate(date)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed date in material_view: %s", date)
		}
		row.Date = parsed
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate view counts")
	}
	return list, nil
}

func (d *DB) ListTopMaterials(ctx context.Context, userSID string, r *store.DateRange, limit int) ([]*store.MaterialViewCount, error) {
	where, args := []string{"material_view.user_sid = " + placeholder(1)}, []any{userSID}
	where, args = appendDateRange(where, args, "material_view.date", r)
	args = append(args, limit)

	query := `
		SELECT material_view.material_id, material.title, COUNT(*) AS view_count
		FROM material_view
		JOIN material ON material.id = material_view.material_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY material_view.material_id, material.title
		ORDER BY view_count DESC
		LIMIT ` + placeholder(len(args))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query top materials")
	}
	defer rows.Close()

	list := make([]*store.MaterialViewCount, 0)
	for rows.Next() {
		row := &store.MaterialViewCount{}
		if err := rows.Scan(&row.MaterialID, &row.Title, &row.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan top material row")
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate top materials")
	}
	return list, nil
}

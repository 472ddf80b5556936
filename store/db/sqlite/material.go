package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/store"
)

func buildMaterialWhere(find *store.FindMaterial) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.CreatedBy; v != nil {
		where, args = append(where, "material.created_by = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsPublished; v != nil {
		where, args = append(where, "material.is_published = "+placeholder(len(args)+1)), append(args, boolValue(*v))
	}
	if v := find.CreatedTsAfter; v != nil {
		where, args = append(where, "material.created_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatedTsBefore; v != nil {
		where, args = append(where, "material.created_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}
	return where, args
}

func (d *DB) CountMaterials(ctx context.Context, find *store.FindMaterial) (int64, error) {
	where, args := buildMaterialWhere(find)

	query := `SELECT COUNT(*) FROM material WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count materials")
	}
	return count, nil
}

func (d *DB) ListMaterials(ctx context.Context, find *store.FindMaterial) ([]*store.Material, error) {
	where, args := buildMaterialWhere(find)

	query := `
		SELECT id, title, created_by, created_ts, is_published
		FROM material
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY material.created_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query materials")
	}
	defer rows.Close()

	list := make([]*store.Material, 0)
	for rows.Next() {
		material := &store.Material{}
		var isPublished int
		if err := rows.Scan(&material.ID, &material.Title, &material.CreatedBy, &material.CreatedTs, &isPublished); err != nil {
			return nil, errors.Wrap(err, "failed to scan material")
		}
		material.IsPublished = isPublished != 0
		list = append(list, material)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate materials")
	}
	return list, nil
}

func (d *DB) CountMaterialsByCreator(ctx context.Context, userSIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(userSIDs))
	if len(userSIDs) == 0 {
		return result, nil
	}

	err := queryChunked(userSIDs, func(chunk []string) error {
		in, args := inPlaceholders(chunk)
		query := `
			SELECT created_by, COUNT(*)
			FROM material
			WHERE is_published = 1 AND created_by IN (` + in + `)
			GROUP BY created_by`

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "failed to query material counts by creator")
		}
		defer rows.Close()

		for rows.Next() {
			var sid string
			var count int64
			if err := rows.Scan(&sid, &count); err != nil {
				return errors.Wrap(err, "failed to scan material count row")
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

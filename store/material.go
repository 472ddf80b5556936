package store

import (
	"context"
)

// Material is a shared document in the shared store.
// CreatedTs is an absolute Unix timestamp; callers that need to compare it
// against calendar-date fields must convert it with timeutil.ToLocalDate.
type Material struct {
	ID          string
	Title       string
	CreatedBy   string
	CreatedTs   int64
	IsPublished bool
}

// FindMaterial is the filter for material queries.
type FindMaterial struct {
	CreatedBy   *string
	IsPublished *bool
	// CreatedTsAfter/CreatedTsBefore bound the absolute creation timestamp,
	// inclusive on both ends.
	CreatedTsAfter  *int64
	CreatedTsBefore *int64
}

func (s *Store) CountMaterials(ctx context.Context, find *FindMaterial) (int64, error) {
	return s.shared.CountMaterials(ctx, find)
}

func (s *Store) ListMaterials(ctx context.Context, find *FindMaterial) ([]*Material, error) {
	return s.shared.ListMaterials(ctx, find)
}

// CountMaterialsByCreator returns published-material counts grouped by
// creator, restricted to the given user SIDs.
func (s *Store) CountMaterialsByCreator(ctx context.Context, userSIDs []string) (map[string]int64, error) {
	return s.shared.CountMaterialsByCreator(ctx, userSIDs)
}

package store

import (
	"context"
	"database/sql"
)

// SharedDriver is the read contract against the multi-user shared store
// (users, materials, material views). Grouped methods are batched: they take
// the full SID list and return one map or row set, never one query per user.
type SharedDriver interface {
	GetDB() *sql.DB
	Close() error

	// User model related methods.
	GetUser(ctx context.Context, find *FindUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	CountUsers(ctx context.Context, find *FindUser) (int64, error)

	// Material model related methods.
	CountMaterials(ctx context.Context, find *FindMaterial) (int64, error)
	ListMaterials(ctx context.Context, find *FindMaterial) ([]*Material, error)
	CountMaterialsByCreator(ctx context.Context, userSIDs []string) (map[string]int64, error)

	// MaterialView model related methods.
	CountMaterialViews(ctx context.Context, find *FindMaterialView) (int64, error)
	CountViewsByUser(ctx context.Context, userSIDs []string, r *DateRange) (map[string]int64, error)
	CountDistinctMaterialsByUser(ctx context.Context, userSIDs []string, r *DateRange) (map[string]int64, error)
	ListViewCountsByUserDate(ctx context.Context, userSIDs []string, r *DateRange) ([]*UserDateViewCount, error)
	ListViewCountsByUserMaterial(ctx context.Context, userSIDs []string, r *DateRange) ([]*UserMaterialViewCount, error)
	ListViewerAggregates(ctx context.Context) ([]*ViewerAggregate, error)
	ListViewCountsByDate(ctx context.Context, userSID string, r *DateRange) ([]*DateViewCount, error)
	ListTopMaterials(ctx context.Context, userSID string, r *DateRange, limit int) ([]*MaterialViewCount, error)
}

// LocalDriver is the read contract against the per-device local store
// (login events only). The local store is orders of magnitude smaller than
// the shared store, so per-user calls against it are acceptable.
type LocalDriver interface {
	GetDB() *sql.DB
	Close() error

	CountLoginEvents(ctx context.Context, find *FindLoginEvent) (int64, error)
	CountDistinctLoginDates(ctx context.Context, userSID string, r *DateRange) (int64, error)
	CountUsersWithMinLoginDays(ctx context.Context, minDays int) (int64, error)
}

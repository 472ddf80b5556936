package store

import (
	"time"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/store/cache"
)

// Store provides read access to both datastores behind one facade: the
// multi-user shared store and the per-device local store. Analytics code
// depends on this facade only, so either store could be swapped for a
// networked service without touching the aggregation logic.
type Store struct {
	profile *profile.Profile
	shared  SharedDriver
	local   LocalDriver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	userCache *cache.Cache // cache for user lookups by SID
}

// New creates a new instance of Store.
func New(shared SharedDriver, local LocalDriver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		profile:     profile,
		shared:      shared,
		local:       local,
		cacheConfig: cacheConfig,
		userCache:   cache.New(cacheConfig),
	}
}

// GetSharedDriver returns the underlying shared store driver.
func (s *Store) GetSharedDriver() SharedDriver {
	return s.shared
}

// GetLocalDriver returns the underlying local store driver.
func (s *Store) GetLocalDriver() LocalDriver {
	return s.local
}

func (s *Store) Close() error {
	s.userCache.Close()

	if err := s.shared.Close(); err != nil {
		return err
	}
	return s.local.Close()
}

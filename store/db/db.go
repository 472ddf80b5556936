package db

import (
	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/store"
	"github.com/yominosekai/kshot/store/db/postgres"
	"github.com/yominosekai/kshot/store/db/sqlite"
)

// The shared store supports SQLite (embedded, the default) and PostgreSQL
// (for deployments where several devices point at one instance). The local
// store is always SQLite: it lives on the device next to the login path
// that writes it.

// NewSharedDriver creates the driver for the shared store based on profile.
func NewSharedDriver(profile *profile.Profile) (store.SharedDriver, error) {
	var driver store.SharedDriver
	var err error

	switch profile.SharedDriver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile.SharedDSN)
	case "postgres":
		driver, err = postgres.NewDB(profile.SharedDSN)
	default:
		return nil, errors.Errorf("unknown shared store driver %q: only 'sqlite' and 'postgres' are supported", profile.SharedDriver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create shared store driver")
	}
	return driver, nil
}

// NewLocalDriver creates the driver for the per-device local store.
func NewLocalDriver(profile *profile.Profile) (store.LocalDriver, error) {
	driver, err := sqlite.NewDB(profile.LocalDSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create local store driver")
	}
	return driver, nil
}

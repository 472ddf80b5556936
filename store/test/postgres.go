package test

import (
	"os"
	"testing"
)

// GetPostgresDSN returns the DSN for PostgreSQL-backed store tests. A real
// instance must be provided via KSHOT_TEST_POSTGRES_DSN; there is no
// container bootstrap here, CI owns the database lifecycle.
func GetPostgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("KSHOT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KSHOT_TEST_POSTGRES_DSN is not set; skipping postgres-backed test")
	}
	return dsn
}

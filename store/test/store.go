// Package test provides store test helpers backed by throwaway databases.
package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/server/timeutil"
	"github.com/yominosekai/kshot/store"
	"github.com/yominosekai/kshot/store/db"
)

// getSharedDriverFromEnv selects the shared store driver under test.
// Defaults to sqlite; set KSHOT_TEST_SHARED_DRIVER=postgres together with
// KSHOT_TEST_POSTGRES_DSN to run against a real PostgreSQL instance.
func getSharedDriverFromEnv() string {
	driver := os.Getenv("KSHOT_TEST_SHARED_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

// NewTestingStore creates a migrated store on throwaway databases. The
// local store is always a fresh sqlite file; the shared store follows the
// driver environment.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	p := &profile.Profile{
		Mode:         "prod",
		Data:         dir,
		SharedDriver: getSharedDriverFromEnv(),
		SharedDSN:    filepath.Join(dir, "shared.db"),
		LocalDSN:     filepath.Join(dir, "local.db"),
	}
	if p.SharedDriver == "postgres" {
		p.SharedDSN = GetPostgresDSN(t)
	}

	shared, err := db.NewSharedDriver(p)
	if err != nil {
		t.Fatalf("failed to create shared driver: %v", err)
	}
	local, err := db.NewLocalDriver(p)
	if err != nil {
		t.Fatalf("failed to create local driver: %v", err)
	}

	ts := store.New(shared, local, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}

func boolLiteral(b bool) string {
	if getSharedDriverFromEnv() == "postgres" {
		if b {
			return "TRUE"
		}
		return "FALSE"
	}
	if b {
		return "1"
	}
	return "0"
}

func userTable() string {
	if getSharedDriverFromEnv() == "postgres" {
		return `"user"`
	}
	return "user"
}

func seedUser(t *testing.T, ts *store.Store, sid, displayName string, isActive bool) {
	t.Helper()
	stmt := fmt.Sprintf("INSERT INTO %s (sid, display_name, is_active, created_ts) VALUES ('%s', '%s', %s, 0)",
		userTable(), sid, displayName, boolLiteral(isActive))
	if _, err := ts.GetSharedDriver().GetDB().Exec(stmt); err != nil {
		t.Fatalf("failed to seed user %s: %v", sid, err)
	}
}

func seedMaterial(t *testing.T, ts *store.Store, id, title, createdBy string, createdTs int64, isPublished bool) {
	t.Helper()
	stmt := fmt.Sprintf("INSERT INTO material (id, title, created_by, created_ts, is_published) VALUES ('%s', '%s', '%s', %d, %s)",
		id, title, createdBy, createdTs, boolLiteral(isPublished))
	if _, err := ts.GetSharedDriver().GetDB().Exec(stmt); err != nil {
		t.Fatalf("failed to seed material %s: %v", id, err)
	}
}

func seedView(t *testing.T, ts *store.Store, materialID, userSID string, date timeutil.LocalDate) {
	t.Helper()
	stmt := fmt.Sprintf("INSERT INTO material_view (material_id, user_sid, date) VALUES ('%s', '%s', '%s')",
		materialID, userSID, date.String())
	if _, err := ts.GetSharedDriver().GetDB().Exec(stmt); err != nil {
		t.Fatalf("failed to seed view: %v", err)
	}
}

func seedLogin(t *testing.T, ts *store.Store, userSID string, date timeutil.LocalDate) {
	t.Helper()
	stmt := fmt.Sprintf("INSERT INTO login_event (user_sid, date) VALUES ('%s', '%s')", userSID, date.String())
	if _, err := ts.GetLocalDriver().GetDB().Exec(stmt); err != nil {
		t.Fatalf("failed to seed login: %v", err)
	}
}

package profile

import (
	"path/filepath"
	"testing"
)

func TestProfileValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			name:    "sqlite defaults",
			profile: Profile{Mode: "dev", Data: dir, SharedDriver: "sqlite"},
			wantErr: false,
		},
		{
			name:    "postgres without DSN",
			profile: Profile{Mode: "dev", Data: dir, SharedDriver: "postgres"},
			wantErr: true,
		},
		{
			name:    "postgres with DSN",
			profile: Profile{Mode: "prod", Data: dir, SharedDriver: "postgres", SharedDSN: "postgres://kshot@localhost/kshot"},
			wantErr: false,
		},
		{
			name:    "unknown driver",
			profile: Profile{Mode: "dev", Data: dir, SharedDriver: "mysql"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileValidateDefaultsDSNs(t *testing.T) {
	dir := t.TempDir()
	p := Profile{Mode: "dev", Data: dir, SharedDriver: "sqlite"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.SharedDSN != filepath.Join(dir, "kshot_shared_dev.db") {
		t.Errorf("unexpected shared DSN: %s", p.SharedDSN)
	}
	if p.LocalDSN != filepath.Join(dir, "kshot_local_dev.db") {
		t.Errorf("unexpected local DSN: %s", p.LocalDSN)
	}
}

func TestProfileValidateNormalizesMode(t *testing.T) {
	dir := t.TempDir()
	p := Profile{Mode: "staging", Data: dir, SharedDriver: "sqlite"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.Mode != "demo" {
		t.Errorf("unknown mode should fall back to demo, got %s", p.Mode)
	}
}

package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// SharedDriver is the database driver for the shared store (sqlite or postgres)
	SharedDriver string
	// SharedDSN points to the multi-user shared store (materials, views, users)
	SharedDSN string
	// LocalDSN points to the per-device local store (login events)
	LocalDSN string
	// Version is the current version of server
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.SharedDriver != "sqlite" && p.SharedDriver != "postgres" {
		return errors.Errorf("unsupported shared store driver %q", p.SharedDriver)
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.SharedDriver == "sqlite" && p.SharedDSN == "" {
		p.SharedDSN = filepath.Join(dataDir, fmt.Sprintf("kshot_shared_%s.db", p.Mode))
	}
	if p.SharedDriver == "postgres" && p.SharedDSN == "" {
		return errors.New("shared store DSN is required for the postgres driver")
	}
	if p.LocalDSN == "" {
		p.LocalDSN = filepath.Join(dataDir, fmt.Sprintf("kshot_local_%s.db", p.Mode))
	}

	return nil
}

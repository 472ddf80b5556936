// Package version provides the build version of the server.
package version

import (
	"fmt"
	"strings"
)

// Version is the semver release of the server.
var Version = "0.3.1"

// DevVersion is the version suffix used in development builds.
var DevVersion = "0.0.0"

// GetCurrentVersion returns the version string for the given run mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return fmt.Sprintf("%s-%s", Version, mode)
	}
	return Version
}

// GetMinorVersion returns the major.minor part of the version.
func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return DevVersion
	}
	return versionList[0] + "." + versionList[1]
}

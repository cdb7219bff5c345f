package service

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// MinServiceVersion is the oldest service API this client speaks.
const MinServiceVersion = "v0.2.0"

// CheckCompatibility reports whether a service version from /health is new
// enough. An empty or unparseable version is treated as incompatible.
func CheckCompatibility(serviceVersion string) error {
	v := strings.TrimSpace(serviceVersion)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("service reported unrecognized version %q", serviceVersion)
	}
	if semver.Compare(v, MinServiceVersion) < 0 {
		return fmt.Errorf("service version %s is older than the minimum supported %s", v, MinServiceVersion)
	}
	return nil
}

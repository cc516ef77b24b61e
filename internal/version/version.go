// Package version parses the four-component server version used for image tags.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidVersion is returned when a version string does not look like
// major.minor.patch.build.
var ErrInvalidVersion = errors.New("invalid version")

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// Version is a validated major.minor.patch.build version string.
type Version string

// Parse validates s and returns it as a Version.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if !versionPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q (expected major.minor.patch.build)", ErrInvalidVersion, s)
	}
	return Version(s), nil
}

// String returns the version as a string.
func (v Version) String() string {
	return string(v)
}

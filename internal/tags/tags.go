// Package tags computes the image tags published for a release.
//
// A release publishes a tag for each version prefix selected by its release
// type. For version 22.2.2.2:
//
//	latest: latest, 22, 22.2, 22.2.2, 22.2.2.2
//	major:  22, 22.2, 22.2.2, 22.2.2.2
//	minor:  22.2, 22.2.2, 22.2.2.2
//	patch:  22.2.2, 22.2.2.2
//	head:   head
package tags

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReleaseType is returned for release types outside the known set.
var ErrInvalidReleaseType = errors.New("invalid release type")

// ReleaseType selects which version prefixes become tags.
type ReleaseType string

const (
	ReleaseLatest ReleaseType = "latest"
	ReleaseMajor  ReleaseType = "major"
	ReleaseMinor  ReleaseType = "minor"
	ReleasePatch  ReleaseType = "patch"
	ReleaseHead   ReleaseType = "head"
)

// maxPrefix is the number of version components that can form a tag.
const maxPrefix = 4

// ReleaseTypes lists the valid release types in CLI display order.
var ReleaseTypes = []ReleaseType{ReleaseLatest, ReleaseMajor, ReleaseMinor, ReleasePatch, ReleaseHead}

// ParseReleaseType converts s to a ReleaseType.
func ParseReleaseType(s string) (ReleaseType, error) {
	rt := ReleaseType(strings.TrimSpace(s))
	if err := rt.Validate(); err != nil {
		return "", err
	}
	return rt, nil
}

// Validate reports whether rt is one of the known release types.
func (rt ReleaseType) Validate() error {
	switch rt {
	case ReleaseLatest, ReleaseMajor, ReleaseMinor, ReleasePatch, ReleaseHead:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidReleaseType, string(rt), joinTypes())
	}
}

// Generate returns the ordered tags for version under release type rt.
//
// Prefixes longer than the version are omitted, so short versions simply
// yield fewer tags.
func Generate(version string, rt ReleaseType) ([]string, error) {
	parts := strings.Split(version, ".")

	switch rt {
	case ReleaseLatest:
		return append([]string{string(ReleaseLatest)}, prefixes(parts, 1)...), nil
	case ReleaseMajor:
		return prefixes(parts, 1), nil
	case ReleaseMinor:
		return prefixes(parts, 2), nil
	case ReleasePatch:
		return prefixes(parts, 3), nil
	case ReleaseHead:
		return []string{string(ReleaseHead)}, nil
	default:
		return nil, rt.Validate()
	}
}

// prefixes joins parts[:k] for k from `from` up to the available component count.
func prefixes(parts []string, from int) []string {
	n := min(len(parts), maxPrefix)
	tags := make([]string, 0, maxPrefix)
	for k := from; k <= n; k++ {
		tags = append(tags, strings.Join(parts[:k], "."))
	}
	return tags
}

func joinTypes() string {
	names := make([]string, len(ReleaseTypes))
	for i, rt := range ReleaseTypes {
		names[i] = string(rt)
	}
	return strings.Join(names, ", ")
}

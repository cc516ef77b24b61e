package version

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// VersionFile is the repository file holding the generated version variables.
const VersionFile = "cmake/autogenerated_versions.txt"

var versionStringPattern = regexp.MustCompile(`^\s*SET\(VERSION_STRING\s+([^)\s]+)\s*\)`)

// FromRepo reads VERSION_STRING from the version file under root.
func FromRepo(root string) (Version, error) {
	path := filepath.Join(root, VersionFile)
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := versionStringPattern.FindStringSubmatch(scanner.Text()); m != nil {
			return Parse(m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read version file: %w", err)
	}

	return "", fmt.Errorf("%w: VERSION_STRING not found in %s", ErrInvalidVersion, path)
}

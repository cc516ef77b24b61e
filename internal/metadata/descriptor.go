// Package metadata reads the build descriptor that buildx writes through
// --metadata-file after each image build.
package metadata

import (
	_ "crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
)

// ErrDescriptorRead is returned when a descriptor is missing, unparsable,
// or carries no valid digest after a build reported success.
var ErrDescriptorRead = errors.New("build descriptor unreadable")

// Platform is the platform recorded in the image descriptor.
type Platform struct {
	Architecture string `json:"architecture"`
	OS           string `json:"os"`
}

// ImageDescriptor is the OCI descriptor of the produced image.
type ImageDescriptor struct {
	MediaType string   `json:"mediaType"`
	Digest    string   `json:"digest"`
	Size      int64    `json:"size"`
	Platform  Platform `json:"platform"`
}

// Descriptor is the subset of the buildx metadata file used for merging.
type Descriptor struct {
	Digest       digest.Digest   `json:"containerimage.digest"`
	ConfigDigest string          `json:"containerimage.config.digest,omitempty"`
	Image        ImageDescriptor `json:"containerimage.descriptor,omitempty"`
	ImageName    string          `json:"image.name,omitempty"`
}

// Read loads and validates the descriptor at path.
func Read(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptorRead, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDescriptorRead, path, err)
	}

	if d.Digest == "" {
		return nil, fmt.Errorf("%w: %s: missing containerimage.digest", ErrDescriptorRead, path)
	}
	if err := d.Digest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDescriptorRead, path, err)
	}

	return &d, nil
}

package publish

import "strings"

// Architecture is a target CPU architecture.
type Architecture string

const (
	AMD64 Architecture = "amd64"
	ARM64 Architecture = "arm64"
)

// Architectures lists the default build architectures in build order.
var Architectures = []Architecture{AMD64, ARM64}

// buckets maps each architecture to the package bucket its build reads.
var buckets = map[Architecture]string{
	AMD64: "package_release",
	ARM64: "package_aarch64",
}

// Bucket returns the package bucket name for the architecture.
func (a Architecture) Bucket() string {
	return buckets[a]
}

// Platform returns the buildx platform string, e.g. "linux/arm64".
func (a Architecture) Platform() string {
	return "linux/" + string(a)
}

// DefaultOS is the OS variant whose tags carry no OS suffix.
const DefaultOS = "ubuntu"

// EffectiveTag returns tag qualified with the OS variant. The default OS
// keeps the bare tag.
func EffectiveTag(os, tag string) string {
	if os == DefaultOS {
		return tag
	}
	return tag + "-" + os
}

// Status is the outcome of a build or merge step.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Result is the outcome for one image reference.
type Result struct {
	Image  string `json:"image"`
	Status Status `json:"status"`
	Hint   string `json:"hint,omitempty"`
}

// Failed reports whether the result is a failure.
func (r Result) Failed() bool {
	return r.Status == StatusFail
}

// Image identifies the image being published.
type Image struct {
	Path string // build context directory holding the Dockerfile.{os} files
	Repo string // registry repository, e.g. "clickhouse/clickhouse-server"
}

// repositoryURL joins the bucket prefix and the architecture bucket with
// exactly one slash.
func repositoryURL(prefix string, arch Architecture) string {
	return strings.TrimRight(prefix, "/") + "/" + arch.Bucket()
}

// Package publish builds the per-architecture server images and merges them
// into multi-architecture manifests.
//
// For every (OS, tag) pair the publisher runs one single-platform build per
// architecture, reads each build's descriptor to collect the image digest,
// and, when pushing, creates the combined tag from those digests. A failed
// architecture build stops the pair: the remaining architectures and the
// merge are skipped and a single FAIL result is reported. In parallel mode
// every architecture runs to completion and reports its own result. Failures are
// results, not errors; only broken contracts (an unreadable descriptor after
// a successful build) and interrupted runs are returned as errors.
package publish

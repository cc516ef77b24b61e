// Package config provides configuration resolution with precedence handling.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dosanma1/docker-server/internal/tags"
	"github.com/dosanma1/docker-server/internal/version"
)

// Flags holds command line overrides. Empty strings and nil pointers mean
// the flag was not given.
type Flags struct {
	Version      string
	ReleaseType  string
	ImagePath    string
	ImageRepo    string
	BucketPrefix string
	RepoRoot     string
	ScratchDir   string
	ReportPath   string
	Docker       string
	Push         *bool
	Parallel     *bool
	Timeout      *time.Duration

	NoUbuntu bool
	NoAlpine bool
	SkipOS   []string
}

// ExcludedOS returns the OS variants the flags exclude.
func (f Flags) ExcludedOS() []string {
	var out []string
	if f.NoUbuntu {
		out = append(out, "ubuntu")
	}
	if f.NoAlpine {
		out = append(out, "alpine")
	}
	return append(out, f.SkipOS...)
}

// Resolver handles configuration precedence: CLI flags > config file > environment > defaults
type Resolver struct {
	file *File
	env  Env
}

// NewResolver creates a new configuration resolver. A nil file means no
// config file was given.
func NewResolver(file *File, env Env) *Resolver {
	if file == nil {
		file = &File{}
	}
	return &Resolver{file: file, env: env}
}

// Resolve builds the run configuration.
func (r *Resolver) Resolve(flags Flags) (*Config, error) {
	root, err := r.ResolveRepoRoot(flags.RepoRoot)
	if err != nil {
		return nil, err
	}

	v, err := r.ResolveVersion(flags.Version, root)
	if err != nil {
		return nil, err
	}

	rt, err := r.ResolveReleaseType(flags.ReleaseType)
	if err != nil {
		return nil, err
	}

	oses, err := r.ResolveOS(flags.ExcludedOS())
	if err != nil {
		return nil, err
	}

	timeout := firstDuration(flags.Timeout, r.file.Timeout, r.env.Timeout)
	if timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, timeout)
	}

	imagePath := first(flags.ImagePath, r.file.ImagePath, r.env.ImagePath, DefaultImagePath)
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(root, imagePath)
	}

	return &Config{
		Version:      v,
		ReleaseType:  rt,
		ImagePath:    imagePath,
		ImageRepo:    first(flags.ImageRepo, r.file.ImageRepo, r.env.ImageRepo, DefaultImageRepo),
		BucketPrefix: first(flags.BucketPrefix, r.file.BucketPrefix, r.env.BucketPrefix),
		Push:         firstBool(true, flags.Push, r.file.Push, r.env.Push),
		OS:           oses,
		RepoRoot:     root,
		ScratchDir:   r.ResolveScratchDir(flags.ScratchDir),
		Parallel:     firstBool(false, flags.Parallel, r.file.Parallel, r.env.Parallel),
		Timeout:      timeout,
		ReportPath:   first(flags.ReportPath, r.file.ReportPath, r.env.ReportPath),
		Docker:       first(flags.Docker, r.file.Docker, r.env.Docker),
		Registry: Registry{
			Host:              r.file.Registry.Host,
			User:              first(r.file.Registry.User, DefaultRegistryUser),
			PasswordParameter: first(r.file.Registry.PasswordParameter, DefaultPasswordParameter),
		},
	}, nil
}

// ResolveRepoRoot resolves the repository root as an absolute path.
// Precedence: CLI flag > file > current directory
func (r *Resolver) ResolveRepoRoot(cliRoot string) (string, error) {
	root := first(cliRoot, r.file.RepoRoot)
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving repository root %s: %w", root, err)
	}
	return abs, nil
}

// ResolveVersion resolves and validates the server version.
// Precedence: CLI flag > file > environment > VERSION_STRING in the repository
func (r *Resolver) ResolveVersion(cliVersion, repoRoot string) (version.Version, error) {
	if s := first(cliVersion, r.file.Version, r.env.Version); s != "" {
		return version.Parse(s)
	}
	return version.FromRepo(repoRoot)
}

// ResolveReleaseType resolves and validates the release type.
// Precedence: CLI flag > file > environment > patch
func (r *Resolver) ResolveReleaseType(cliType string) (tags.ReleaseType, error) {
	return tags.ParseReleaseType(first(cliType, r.file.ReleaseType, r.env.ReleaseType, string(tags.ReleasePatch)))
}

// ResolveOS returns the OS variants to build: the file's list or
// DefaultOS, minus excluded, in their original order.
func (r *Resolver) ResolveOS(excluded []string) ([]string, error) {
	base := r.file.OS
	if len(base) == 0 {
		base = DefaultOS
	}

	var out []string
	for _, name := range base {
		if !slices.Contains(excluded, name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoOS
	}
	return out, nil
}

// ResolveScratchDir resolves the directory for build descriptor files.
// Precedence: CLI flag > file > $RUNNER_TEMP/docker_images_check > system temp dir
func (r *Resolver) ResolveScratchDir(cliDir string) string {
	if dir := first(cliDir, r.file.ScratchDir); dir != "" {
		return dir
	}
	return filepath.Join(first(r.env.RunnerTemp, os.TempDir()), ScratchDirName)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(def bool, values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

func firstDuration(cli *time.Duration, values ...time.Duration) time.Duration {
	if cli != nil {
		return *cli
	}
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

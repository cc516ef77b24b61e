package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dosanma1/docker-server/internal/tags"
	"github.com/dosanma1/docker-server/internal/version"
)

var (
	// ErrInvalidConfig is returned for unreadable or malformed configuration.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoOS is returned when every OS variant has been excluded.
	ErrNoOS = errors.New("no OS variants left to build")
)

// Defaults.
const (
	DefaultImagePath         = "docker/server"
	DefaultImageRepo         = "clickhouse/clickhouse-server"
	DefaultRegistryUser      = "robotclickhouse"
	DefaultPasswordParameter = "dockerhub_robot_password"
	ScratchDirName           = "docker_images_check"
)

// DefaultOS lists the OS variants built when nothing else is configured.
var DefaultOS = []string{"ubuntu", "alpine"}

// Config is the resolved configuration of one publish run.
type Config struct {
	Version      version.Version
	ReleaseType  tags.ReleaseType
	ImagePath    string // absolute build context directory
	ImageRepo    string
	BucketPrefix string
	Push         bool
	OS           []string
	RepoRoot     string
	ScratchDir   string
	Parallel     bool
	Timeout      time.Duration // per docker process; zero means none
	ReportPath   string
	Docker       string
	Registry     Registry
}

// Registry holds the registry login settings.
type Registry struct {
	Host              string `yaml:"host,omitempty"` // empty means Docker Hub
	User              string `yaml:"user,omitempty"`
	PasswordParameter string `yaml:"password_parameter,omitempty"`
}

// File is the on-disk YAML configuration. Unset fields defer to the
// environment and the defaults.
type File struct {
	Version      string        `yaml:"version,omitempty"`
	ReleaseType  string        `yaml:"release_type,omitempty"`
	ImagePath    string        `yaml:"image_path,omitempty"`
	ImageRepo    string        `yaml:"image_repo,omitempty"`
	BucketPrefix string        `yaml:"bucket_prefix,omitempty"`
	Push         *bool         `yaml:"push,omitempty"`
	OS           []string      `yaml:"os,omitempty"`
	RepoRoot     string        `yaml:"repo_root,omitempty"`
	ScratchDir   string        `yaml:"scratch_dir,omitempty"`
	Parallel     *bool         `yaml:"parallel,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	ReportPath   string        `yaml:"report_path,omitempty"`
	Docker       string        `yaml:"docker,omitempty"`
	Registry     Registry      `yaml:"registry,omitempty"`
}

// Load reads and parses a YAML config file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w: %w", ErrInvalidConfig, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w: %w", path, ErrInvalidConfig, err)
	}

	return &f, nil
}

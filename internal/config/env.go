package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the settings read from the environment. RUNNER_TEMP is set by
// the CI runner; the rest mirror the config file keys.
type Env struct {
	RunnerTemp   string        `envconfig:"RUNNER_TEMP"`
	Version      string        `envconfig:"DOCKER_SERVER_VERSION"`
	ReleaseType  string        `envconfig:"DOCKER_SERVER_RELEASE_TYPE"`
	ImagePath    string        `envconfig:"DOCKER_SERVER_IMAGE_PATH"`
	ImageRepo    string        `envconfig:"DOCKER_SERVER_IMAGE_REPO"`
	BucketPrefix string        `envconfig:"DOCKER_SERVER_BUCKET_PREFIX"`
	Push         *bool         `envconfig:"DOCKER_SERVER_PUSH"`
	Parallel     *bool         `envconfig:"DOCKER_SERVER_PARALLEL"`
	Timeout      time.Duration `envconfig:"DOCKER_SERVER_TIMEOUT"`
	ReportPath   string        `envconfig:"DOCKER_SERVER_REPORT"`
	Docker       string        `envconfig:"DOCKER_SERVER_DOCKER"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("parsing environment variables: %w: %w", ErrInvalidConfig, err)
	}
	return e, nil
}

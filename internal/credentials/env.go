package credentials

import (
	"context"
	"fmt"
	"os"
)

// DefaultEnvVar holds the registry password when it is passed in directly.
const DefaultEnvVar = "DOCKER_PASSWORD"

// EnvProvider reads the password from an environment variable.
type EnvProvider struct {
	Name string // defaults to DefaultEnvVar
}

// Password implements Provider.
func (p EnvProvider) Password(context.Context) (string, error) {
	name := p.Name
	if name == "" {
		name = DefaultEnvVar
	}
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("$%s is empty: %w", name, ErrNoCredentials)
}

// Package credentials resolves the registry password used by docker login.
package credentials

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoCredentials is returned when a provider has no password to offer.
var ErrNoCredentials = errors.New("no registry credentials")

// Provider returns the registry password.
type Provider interface {
	Password(ctx context.Context) (string, error)
}

// Chain asks each provider in turn. A provider failing with
// ErrNoCredentials passes to the next one; any other error stops the chain.
type Chain []Provider

// Password returns the first password found.
func (c Chain) Password(ctx context.Context) (string, error) {
	for _, p := range c {
		password, err := p.Password(ctx)
		if err == nil {
			return password, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return "", err
		}
	}
	return "", fmt.Errorf("tried %d providers: %w", len(c), ErrNoCredentials)
}

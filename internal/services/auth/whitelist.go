package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"united_network/internal/lib/logger/sl"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is deliberately the only failure the provider
// reports: callers cannot tell an unknown user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider is the credential-check capability. The whitelist below is a
// demo placeholder; a real credential store slots in behind this
// interface without touching the session gate or transport.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) error
}

// DefaultWhitelist returns the fixed allow-list of credential pairs.
func DefaultWhitelist() map[string]string {
	return map[string]string{
		"cozmicwayz": "Apple321234",
		"levi":       "cozmiclevi",
	}
}

type WhitelistProvider struct {
	log   *slog.Logger
	creds map[string][]byte
}

// NewWhitelistProvider hashes the configured passwords once at
// construction so plain text never sits in the running process.
func NewWhitelistProvider(log *slog.Logger, pairs map[string]string) (*WhitelistProvider, error) {
	const op = "auth.NewWhitelistProvider"

	creds := make(map[string][]byte, len(pairs))
	for username, password := range pairs {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		creds[username] = hash
	}

	return &WhitelistProvider{
		log:   log,
		creds: creds,
	}, nil
}

func (p *WhitelistProvider) Authenticate(ctx context.Context, username, password string) error {
	const op = "auth.WhitelistProvider.Authenticate"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := p.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	hash, ok := p.creds[username]
	if !ok {
		log.Warn("unknown user")

		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return nil
}

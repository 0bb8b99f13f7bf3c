package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitelistProvider_Authenticate(t *testing.T) {
	provider, err := NewWhitelistProvider(slog.Default(), DefaultWhitelist())
	require.NoError(t, err)

	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"whitelisted pair", "cozmicwayz", "Apple321234", false},
		{"second whitelisted pair", "levi", "cozmiclevi", false},
		{"wrong password", "cozmicwayz", "wrong", true},
		{"unknown user", "steve", "Apple321234", true},
		{"crossed pair", "levi", "Apple321234", true},
		{"empty credentials", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provider.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

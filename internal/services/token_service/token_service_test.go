package services

import (
	"context"
	"testing"

	"united_network/internal/lib/jwt"
	"united_network/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateTokens(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService(repository.NewMemoryTokenRepo(), "test-secret")

	pair, err := svc.GenerateTokens(ctx, "cozmicwayz")
	require.NoError(t, err)

	assert.Equal(t, "cozmicwayz", pair.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	sub, err := jwt.Subject(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cozmicwayz", sub)
}

func TestTokenService_RefreshTokens_Rotates(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService(repository.NewMemoryTokenRepo(), "test-secret")

	pair, err := svc.GenerateTokens(ctx, "levi")
	require.NoError(t, err)

	next, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "levi", next.Username)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the consumed token cannot be replayed
	_, err = svc.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenNotInStorage)
}

func TestTokenService_RefreshTokens_SameSecondStaysSingleUse(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService(repository.NewMemoryTokenRepo(), "test-secret")

	pair, err := svc.GenerateTokens(ctx, "levi")
	require.NoError(t, err)

	// exp/iat have second resolution; rotating immediately must still
	// produce a distinct token and consume the old one
	rotated := pair.RefreshToken
	for i := 0; i < 3; i++ {
		next, err := svc.RefreshTokens(ctx, rotated)
		require.NoError(t, err)
		require.NotEqual(t, rotated, next.RefreshToken)

		_, err = svc.RefreshTokens(ctx, rotated)
		require.ErrorIs(t, err, ErrTokenNotInStorage)

		rotated = next.RefreshToken
	}
}

func TestTokenService_RefreshTokens_Garbage(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService(repository.NewMemoryTokenRepo(), "test-secret")

	_, err := svc.RefreshTokens(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RevokeAll(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService(repository.NewMemoryTokenRepo(), "test-secret")

	pair, err := svc.GenerateTokens(ctx, "levi")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, "levi"))

	_, err = svc.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenNotInStorage)
}

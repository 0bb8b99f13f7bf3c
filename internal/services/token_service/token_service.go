package services

import (
	"context"
	"errors"
	"time"

	"united_network/internal/domain/models"
	"united_network/internal/lib/jwt"
	"united_network/internal/repository"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

const (
	AccessTokenExpire  = 15 * time.Minute
	RefreshTokenExpire = 7 * 24 * time.Hour
)

type TokenService struct {
	repo   repository.TokenRepository
	secret []byte
}

func NewTokenService(repo repository.TokenRepository, secret string) *TokenService {
	return &TokenService{
		repo:   repo,
		secret: []byte(secret),
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, username string) (*models.TokenPair, error) {
	accessToken, err := jwt.NewToken(username, s.secret, AccessTokenExpire)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.NewToken(username, s.secret, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, username, refreshToken, RefreshTokenExpire); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		Username:     username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens rotates a refresh token: it must still exist in the
// token store, gets consumed, and a fresh pair is issued.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	username, err := jwt.Subject(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exists, err := s.repo.GetRefreshToken(ctx, username, refreshToken)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.repo.DeleteRefreshToken(ctx, username, refreshToken); err != nil {
		return nil, err
	}

	return s.GenerateTokens(ctx, username)
}

// RevokeAll drops every refresh token for a user, used on logout.
func (s *TokenService) RevokeAll(ctx context.Context, username string) error {
	return s.repo.DeleteAllUserTokens(ctx, username)
}

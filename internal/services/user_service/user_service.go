package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"united_network/internal/domain/models"
	"united_network/internal/lib/logger/sl"
	"united_network/internal/repository"
	"united_network/internal/services/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionService is the session gate: whitelist login, persisted
// session state per client scope, and the ownership check that gates
// owner-only affordances.
type SessionService struct {
	log      *slog.Logger
	provider auth.Provider
	repo     repository.SessionRepository
}

func NewSessionService(log *slog.Logger, provider auth.Provider, repo repository.SessionRepository) *SessionService {
	return &SessionService{
		log:      log,
		provider: provider,
		repo:     repo,
	}
}

// Login authenticates against the whitelist and, on success, persists
// isLoggedIn and currentUser for the scope. On failure neither the
// in-memory session nor the persisted record changes.
func (s *SessionService) Login(ctx context.Context, scope, username, password string) (models.Session, error) {
	const op = "user_service.SessionService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	log.Info("attempting to login user")

	if err := s.provider.Authenticate(ctx, username, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("authentication failed", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	session := models.Session{
		IsLoggedIn:  true,
		CurrentUser: username,
	}

	if err := s.repo.SaveSession(ctx, scope, session); err != nil {
		log.Error("failed to persist session", sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return session, nil
}

// Logout clears both the in-memory session and the persisted keys.
func (s *SessionService) Logout(ctx context.Context, scope string) error {
	const op = "user_service.SessionService.Logout"

	log := s.log.With(slog.String("op", op))

	if err := s.repo.ClearSession(ctx, scope); err != nil {
		log.Error("failed to clear session", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged out")

	return nil
}

// Restore reads the persisted session at page initialization. Malformed
// records come back as a logged-out session, never as an error the
// caller has to branch on.
func (s *SessionService) Restore(ctx context.Context, scope string) (models.Session, error) {
	const op = "user_service.SessionService.Restore"

	session, err := s.repo.LoadSession(ctx, scope)
	if err != nil {
		s.log.Error("failed to load session", slog.String("op", op), sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return session, nil
}

// IsOwner reports whether the session owns an item by the given author.
func (s *SessionService) IsOwner(session models.Session, author string) bool {
	return session.Owns(author)
}

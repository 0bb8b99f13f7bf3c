package repository

import (
	"context"
	"time"

	"united_network/internal/domain/models"
)

// CatalogRepository is the in-memory catalog store. Add prepends, so
// listing order is newest-first. There is deliberately no update
// operation and no authorization; ownership gates the transport layer.
type CatalogRepository interface {
	Add(ctx context.Context, kind models.CatalogKind, item models.CatalogItem) error
	Remove(ctx context.Context, kind models.CatalogKind, id string) error
	Get(ctx context.Context, kind models.CatalogKind, id string) (models.CatalogItem, error)
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error)
}

// SessionRepository persists the session key-value layout per client
// scope: isLoggedIn ("true" or absent) and currentUser. Load must treat
// a malformed record as logged out.
type SessionRepository interface {
	SaveSession(ctx context.Context, scope string, session models.Session) error
	LoadSession(ctx context.Context, scope string) (models.Session, error)
	ClearSession(ctx context.Context, scope string) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, username, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, username, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, username, token string) error
	DeleteAllUserTokens(ctx context.Context, username string) error
}

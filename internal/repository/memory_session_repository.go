package repository

import (
	"context"

	"united_network/internal/domain/models"

	"github.com/patrickmn/go-cache"
)

// MemorySessionRepo is the in-process fallback when no Redis is
// configured. Same key layout as the Redis implementation, so the two
// are interchangeable behind SessionRepository.
type MemorySessionRepo struct {
	c *cache.Cache
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		c: cache.New(cache.NoExpiration, 0),
	}
}

func (r *MemorySessionRepo) SaveSession(ctx context.Context, scope string, session models.Session) error {
	if !session.IsLoggedIn {
		return r.ClearSession(ctx, scope)
	}

	r.c.Set(loggedInKey(scope), "true", cache.NoExpiration)
	r.c.Set(currentUserKey(scope), session.CurrentUser, cache.NoExpiration)
	return nil
}

func (r *MemorySessionRepo) LoadSession(_ context.Context, scope string) (models.Session, error) {
	loggedIn, found := r.c.Get(loggedInKey(scope))
	if !found {
		return models.Session{}, nil
	}

	user, found := r.c.Get(currentUserKey(scope))
	if !found {
		return models.Session{}, nil
	}

	if loggedIn.(string) != "true" || user.(string) == "" {
		return models.Session{}, nil
	}

	return models.Session{IsLoggedIn: true, CurrentUser: user.(string)}, nil
}

func (r *MemorySessionRepo) ClearSession(_ context.Context, scope string) error {
	r.c.Delete(loggedInKey(scope))
	r.c.Delete(currentUserKey(scope))
	return nil
}

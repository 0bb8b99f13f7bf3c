package repository

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

type MemoryTokenRepo struct {
	c *cache.Cache
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{
		c: cache.New(cache.DefaultExpiration, 10*time.Minute),
	}
}

func (r *MemoryTokenRepo) SaveRefreshToken(_ context.Context, username, token string, exp time.Duration) error {
	r.c.Set(refreshTokenKey(username, token), "1", exp)
	return nil
}

func (r *MemoryTokenRepo) GetRefreshToken(_ context.Context, username, token string) (bool, error) {
	v, found := r.c.Get(refreshTokenKey(username, token))
	if !found {
		return false, nil
	}
	return v.(string) == "1", nil
}

func (r *MemoryTokenRepo) DeleteRefreshToken(_ context.Context, username, token string) error {
	r.c.Delete(refreshTokenKey(username, token))
	return nil
}

func (r *MemoryTokenRepo) DeleteAllUserTokens(_ context.Context, username string) error {
	prefix := refreshTokenKey(username, "")
	for key := range r.c.Items() {
		if strings.HasPrefix(key, prefix) {
			r.c.Delete(key)
		}
	}
	return nil
}

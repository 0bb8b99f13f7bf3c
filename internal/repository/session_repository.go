package repository

import (
	"context"
	"fmt"

	"united_network/internal/domain/models"
	redisapp "united_network/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepo stores the two session keys per client scope the
// same way the browser build kept them in localStorage.
type RedisSessionRepo struct {
	Client *redisapp.Client
}

func NewRedisSessionRepo(client *redisapp.Client) *RedisSessionRepo {
	return &RedisSessionRepo{Client: client}
}

func (r *RedisSessionRepo) SaveSession(ctx context.Context, scope string, session models.Session) error {
	const op = "repository.RedisSessionRepo.SaveSession"

	if !session.IsLoggedIn {
		return r.ClearSession(ctx, scope)
	}

	if err := r.Client.Set(ctx, loggedInKey(scope), "true", 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.Client.Set(ctx, currentUserKey(scope), session.CurrentUser, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSessionRepo) LoadSession(ctx context.Context, scope string) (models.Session, error) {
	const op = "repository.RedisSessionRepo.LoadSession"

	loggedIn, err := r.Client.Get(ctx, loggedInKey(scope)).Result()
	if err == redis.Nil {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := r.Client.Get(ctx, currentUserKey(scope)).Result()
	if err == redis.Nil {
		// isLoggedIn without currentUser is malformed: treat as logged out
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if loggedIn != "true" || user == "" {
		return models.Session{}, nil
	}

	return models.Session{IsLoggedIn: true, CurrentUser: user}, nil
}

func (r *RedisSessionRepo) ClearSession(ctx context.Context, scope string) error {
	const op = "repository.RedisSessionRepo.ClearSession"

	if err := r.Client.Del(ctx, loggedInKey(scope), currentUserKey(scope)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func loggedInKey(scope string) string {
	return "session:" + scope + ":isLoggedIn"
}

func currentUserKey(scope string) string {
	return "session:" + scope + ":currentUser"
}

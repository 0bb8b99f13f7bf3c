package repository

import (
	"context"
	"testing"

	"united_network/internal/domain/models"
	redisapp "united_network/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepo_SaveSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(redisapp.NewFromClient(db))

	mock.ExpectSet("session:scope1:isLoggedIn", "true", 0).SetVal("OK")
	mock.ExpectSet("session:scope1:currentUser", "cozmicwayz", 0).SetVal("OK")

	err := repo.SaveSession(context.Background(), "scope1", models.Session{
		IsLoggedIn:  true,
		CurrentUser: "cozmicwayz",
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepo_SaveLoggedOutClears(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(redisapp.NewFromClient(db))

	mock.ExpectDel("session:scope1:isLoggedIn", "session:scope1:currentUser").SetVal(2)

	err := repo.SaveSession(context.Background(), "scope1", models.Session{})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepo_LoadSession(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock redismock.ClientMock)
		want  models.Session
	}{
		{
			name: "restores a prior login",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet("session:scope1:isLoggedIn").SetVal("true")
				mock.ExpectGet("session:scope1:currentUser").SetVal("levi")
			},
			want: models.Session{IsLoggedIn: true, CurrentUser: "levi"},
		},
		{
			name: "absent keys read as logged out",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet("session:scope1:isLoggedIn").RedisNil()
			},
			want: models.Session{},
		},
		{
			name: "isLoggedIn without currentUser is malformed",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet("session:scope1:isLoggedIn").SetVal("true")
				mock.ExpectGet("session:scope1:currentUser").RedisNil()
			},
			want: models.Session{},
		},
		{
			name: "unexpected flag value reads as logged out",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet("session:scope1:isLoggedIn").SetVal("yes")
				mock.ExpectGet("session:scope1:currentUser").SetVal("levi")
			},
			want: models.Session{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			repo := NewRedisSessionRepo(redisapp.NewFromClient(db))

			tt.setup(mock)

			got, err := repo.LoadSession(context.Background(), "scope1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemorySessionRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepo()

	got, err := repo.LoadSession(ctx, "scope1")
	require.NoError(t, err)
	assert.False(t, got.IsLoggedIn)

	require.NoError(t, repo.SaveSession(ctx, "scope1", models.Session{IsLoggedIn: true, CurrentUser: "levi"}))

	got, err = repo.LoadSession(ctx, "scope1")
	require.NoError(t, err)
	assert.Equal(t, models.Session{IsLoggedIn: true, CurrentUser: "levi"}, got)

	// scopes are isolated
	other, err := repo.LoadSession(ctx, "scope2")
	require.NoError(t, err)
	assert.False(t, other.IsLoggedIn)

	require.NoError(t, repo.ClearSession(ctx, "scope1"))

	got, err = repo.LoadSession(ctx, "scope1")
	require.NoError(t, err)
	assert.False(t, got.IsLoggedIn)
}

package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"united_network/internal/config"
	"united_network/internal/repository"
	"united_network/internal/services/auth"
	catalogservice "united_network/internal/services/catalog_service"
	tokenservice "united_network/internal/services/token_service"
	userservice "united_network/internal/services/user_service"
	previewstore "united_network/internal/storage/previewstore"
)

type Suite struct {
	*testing.T
	Cfg            *config.Config
	SessionService *userservice.SessionService
	CatalogService *catalogservice.CatalogService
	TokenService   *tokenservice.TokenService
	Previews       *previewstore.MemoryPreviewStore
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	cfg := config.MustLoadPath(configPath())

	ctx, cancelCtx := context.WithTimeout(context.Background(), time.Duration(time.Hour))

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	previews := previewstore.NewMemoryPreviewStore("/previews")

	provider, err := auth.NewWhitelistProvider(log, auth.DefaultWhitelist())
	if err != nil {
		t.Fatalf("whitelist provider: %v", err)
	}

	sessionService := userservice.NewSessionService(log, provider, repository.NewMemorySessionRepo())
	catalogService := catalogservice.NewCatalogService(log, repository.NewMemoryCatalogRepo(), previews)
	tokenService := tokenservice.NewTokenService(repository.NewMemoryTokenRepo(), cfg.TokenSecret)

	t.Cleanup(func() {
		t.Helper()
		cancelCtx()
	})

	return ctx, &Suite{
		T:              t,
		Cfg:            cfg,
		SessionService: sessionService,
		CatalogService: catalogService,
		TokenService:   tokenService,
		Previews:       previews,
	}
}

func configPath() string {
	const key = "CONFIG_PATH"

	if v := os.Getenv(key); v != "" {
		return v
	}

	return "../config/local.yaml"
}

package app

import (
	"log/slog"

	httpapp "united_network/internal/app/http"
	"united_network/internal/config"
	"united_network/internal/lib/typewriter"
	"united_network/internal/repository"
	"united_network/internal/services/auth"
	catalogservice "united_network/internal/services/catalog_service"
	tokenservice "united_network/internal/services/token_service"
	userservice "united_network/internal/services/user_service"
	previewstore "united_network/internal/storage/previewstore"
	redisclient "united_network/internal/storage/redis"
	httprouters "united_network/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	previews := previewstore.NewMemoryPreviewStore("/previews")

	var (
		sessionRepo repository.SessionRepository
		tokenRepo   repository.TokenRepository
	)

	switch cfg.SessionStore {
	case "redis":
		client := redisclient.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

		sessionRepo = repository.NewRedisSessionRepo(client)
		tokenRepo = repository.NewRedisTokenRepo(client)
	default:
		sessionRepo = repository.NewMemorySessionRepo()
		tokenRepo = repository.NewMemoryTokenRepo()
	}

	catalogRepo := repository.NewMemoryCatalogRepo()

	provider, err := auth.NewWhitelistProvider(log, auth.DefaultWhitelist())
	if err != nil {
		panic(err)
	}

	sessionService := userservice.NewSessionService(log, provider, sessionRepo)
	catalogService := catalogservice.NewCatalogService(log, catalogRepo, previews)
	tokenService := tokenservice.NewTokenService(tokenRepo, cfg.TokenSecret)

	hero := typewriter.New(cfg.Hero.Texts, cfg.Hero.Speed, cfg.Hero.Pause)

	routers := httprouters.NewRouter(
		log,
		sessionService,
		catalogService,
		tokenService,
		previews,
		hero,
		cfg.DiscordURL,
		cfg.ItemsPerPage,
	)

	server := httpapp.New(log, cfg.TokenSecret, cfg.CookieSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{HTTPServer: server}
}

package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	custommw "united_network/internal/middleware"
	httprouters "united_network/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	token   string
}

func New(log *slog.Logger, token, cookieSecret string, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cookieSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(custommw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		token:   token,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// ownerOnlyMiddleware rejects requests without a logged-in session
// before the handler runs its own ownership check.
func (s *Server) ownerOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
		}

		scopeID, ok := sess.Values["scope_id"].(string)
		if !ok || scopeID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		restored, err := s.routers.SessionService.Restore(c.Request().Context(), scopeID)
		if err != nil || !restored.IsLoggedIn {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	s.e.GET("/", s.routers.Home)
	s.e.GET("/gallery", s.routers.ListGallery)
	s.e.GET("/reviews", s.routers.ListReviews)
	s.e.GET("/about", s.routers.About)
	s.e.GET("/discord", s.routers.Discord)
	s.e.GET("/previews/:id", s.routers.Preview)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.e.Group("/api/v1")
	{
		api.POST("/login", s.routers.Login)
		api.POST("/logout", s.routers.Logout)
		api.POST("/refresh", s.routers.Refresh)
		api.GET("/session", s.routers.Session)
		api.GET("/hero/typewriter", s.routers.HeroTypewriter)

		api.GET("/gallery", s.routers.ListGallery)
		api.GET("/reviews", s.routers.ListReviews)
		api.POST("/gallery/viewer", s.routers.GalleryViewer)
		api.POST("/reviews/viewer", s.routers.ReviewViewer)

		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		swagger := s.e.Group("/swag")
		{
			swagger.GET("/swagger/*", echoSwagger.WrapHandler)
		}

		galleryGroup := api.Group("/gallery")
		galleryGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		{
			galleryGroup.POST("", s.routers.CreateGalleryItem, s.ownerOnlyMiddleware)
			galleryGroup.DELETE("/:id", s.routers.DeleteGalleryItem, s.ownerOnlyMiddleware)
			galleryGroup.PATCH("/:id", s.routers.EditItem, s.ownerOnlyMiddleware)
		}

		reviewGroup := api.Group("/reviews")
		reviewGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		{
			reviewGroup.POST("", s.routers.CreateReviewItem, s.ownerOnlyMiddleware)
			reviewGroup.DELETE("/:id", s.routers.DeleteReviewItem, s.ownerOnlyMiddleware)
			reviewGroup.PATCH("/:id", s.routers.EditItem, s.ownerOnlyMiddleware)
		}
	}

	s.e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{
			"status": "error",
			"error":  "not_found",
		})
	})
}

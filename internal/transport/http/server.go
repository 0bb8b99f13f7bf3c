package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"united_network/internal/domain/models"
	"united_network/internal/lib/logger/sl"
	"united_network/internal/lib/typewriter"
	"united_network/internal/services/upload_service"
	viewer "united_network/internal/services/viewer_service"
	"united_network/internal/storage"
	previewstore "united_network/internal/storage/previewstore"
	"united_network/internal/transport/http/dto"
	"united_network/internal/transport/http/dto/request"
	"united_network/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "united_network/docs"
)

type SessionService interface {
	Login(ctx context.Context, scope, username, password string) (models.Session, error)
	Logout(ctx context.Context, scope string) error
	Restore(ctx context.Context, scope string) (models.Session, error)
	IsOwner(session models.Session, author string) bool
}

type CatalogService interface {
	List(ctx context.Context, kind models.CatalogKind, query string, page, perPage int, session models.Session) (*dto.CatalogPage, error)
	FilteredItems(ctx context.Context, kind models.CatalogKind, query string) ([]models.CatalogItem, error)
	CreateGalleryItem(ctx context.Context, data models.UploadData, author string) (models.GalleryItem, error)
	CreateReviewItem(ctx context.Context, data models.UploadData, authorName string) (models.ReviewItem, error)
	GetItem(ctx context.Context, kind models.CatalogKind, id string) (models.CatalogItem, error)
	DeleteItem(ctx context.Context, kind models.CatalogKind, id string) error
}

type TokenService interface {
	GenerateTokens(ctx context.Context, username string) (*models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	RevokeAll(ctx context.Context, username string) error
}

type Routers struct {
	log            *slog.Logger
	SessionService SessionService
	CatalogService CatalogService
	TokenService   TokenService
	Previews       previewstore.PreviewStore
	Hero           *typewriter.Typewriter
	DiscordURL     string
	PerPage        int
}

func NewRouter(
	log *slog.Logger,
	sessionService SessionService,
	catalogService CatalogService,
	tokenService TokenService,
	previews previewstore.PreviewStore,
	hero *typewriter.Typewriter,
	discordURL string,
	perPage int,
) *Routers {
	return &Routers{
		log:            log,
		SessionService: sessionService,
		CatalogService: catalogService,
		TokenService:   tokenService,
		Previews:       previews,
		Hero:           hero,
		DiscordURL:     discordURL,
		PerPage:        perPage,
	}
}

// Login godoc
// @Summary Log in with a whitelisted account
// @Description Checks the username/password pair against the whitelist and persists the session.
// @Tags session
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	ctx := c.Request().Context()

	sess, err := r.SessionService.Login(ctx, r.sessionScope(c), req.Username, req.Password)
	if err != nil {
		// unknown user and wrong password are indistinguishable on purpose
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	tokens, err := r.TokenService.GenerateTokens(ctx, sess.CurrentUser)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: map[string]interface{}{
			"session": sess,
			"tokens":  tokens,
		},
	})
}

// Logout godoc
// @Summary Log out
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(slog.String("op", op))

	ctx := c.Request().Context()
	scope := r.sessionScope(c)

	if sess, err := r.SessionService.Restore(ctx, scope); err == nil && sess.IsLoggedIn {
		if err := r.TokenService.RevokeAll(ctx, sess.CurrentUser); err != nil {
			log.Warn("failed to revoke tokens", sl.Err(err))
		}
	}

	if err := r.SessionService.Logout(ctx, scope); err != nil {
		log.Error("logout failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(models.Session{}))
}

// Session godoc
// @Summary Restore the persisted session
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session [get]
func (r *Routers) Session(c echo.Context) error {
	const op = "http.routers.Session"

	sess, err := r.SessionService.Restore(c.Request().Context(), r.sessionScope(c))
	if err != nil {
		r.log.Error("session restore failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sess))
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags session
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	tokens, err := r.TokenService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Warn("refresh rejected", sl.Err(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// ListGallery godoc
// @Summary List gallery items
// @Description Filtered, paginated gallery view. The query matches title and description.
// @Tags catalog
// @Produce json
// @Param query query string false "Search query"
// @Param page query int false "1-based page"
// @Success 200 {object} response.Response{data=dto.CatalogPage}
// @Router /api/v1/gallery [get]
func (r *Routers) ListGallery(c echo.Context) error {
	return r.listCatalog(c, models.KindGallery)
}

// ListReviews godoc
// @Summary List reviews
// @Description Filtered, paginated review board. The query also matches the author name.
// @Tags catalog
// @Produce json
// @Param query query string false "Search query"
// @Param page query int false "1-based page"
// @Success 200 {object} response.Response{data=dto.CatalogPage}
// @Router /api/v1/reviews [get]
func (r *Routers) ListReviews(c echo.Context) error {
	return r.listCatalog(c, models.KindReview)
}

func (r *Routers) listCatalog(c echo.Context, kind models.CatalogKind) error {
	const op = "http.routers.listCatalog"

	ctx := c.Request().Context()

	query := c.QueryParam("query")
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			page = p
		}
	}

	// a fresh query always starts from the first page
	if c.QueryParams().Has("query") && !c.QueryParams().Has("page") {
		page = 1
	}

	sess, err := r.SessionService.Restore(ctx, r.sessionScope(c))
	if err != nil {
		sess = models.Session{}
	}

	result, err := r.CatalogService.List(ctx, kind, query, page, r.PerPage, sess)
	if err != nil {
		r.log.Error("failed to list catalog", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// CreateGalleryItem godoc
// @Summary Add a gallery item
// @Description Multipart upload: title, description and one or more image files. Requires a logged-in session.
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/gallery [post]
func (r *Routers) CreateGalleryItem(c echo.Context) error {
	const op = "http.routers.CreateGalleryItem"

	return r.createItem(c, op, func(ctx context.Context, data models.UploadData, author string) (interface{}, error) {
		return r.CatalogService.CreateGalleryItem(ctx, data, author)
	}, false)
}

// CreateReviewItem godoc
// @Summary Add a review
// @Description Multipart upload: title, description, rating and image files. The primary file becomes the profile image.
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/reviews [post]
func (r *Routers) CreateReviewItem(c echo.Context) error {
	const op = "http.routers.CreateReviewItem"

	return r.createItem(c, op, func(ctx context.Context, data models.UploadData, author string) (interface{}, error) {
		return r.CatalogService.CreateReviewItem(ctx, data, author)
	}, true)
}

func (r *Routers) createItem(
	c echo.Context,
	op string,
	create func(ctx context.Context, data models.UploadData, author string) (interface{}, error),
	withRating bool,
) error {
	log := r.log.With(slog.String("op", op))

	ctx := c.Request().Context()

	sess, err := r.SessionService.Restore(ctx, r.sessionScope(c))
	if err != nil || !sess.IsLoggedIn {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	intake := services.NewIntake(r.log, r.Previews)
	defer intake.Reset(ctx)

	incoming, err := readMultipartFiles(form.File["files"])
	if err != nil {
		log.Warn("failed to read upload files", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	intake.AddFiles(ctx, incoming)

	var rating *int
	if withRating {
		if raw := c.FormValue("rating"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "rating must be an integer"))
			}
			rating = &v
		}
	}

	data, err := intake.Build(ctx, c.FormValue("title"), c.FormValue("description"), rating)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_upload", err.Error()))
	}

	item, err := create(ctx, data, sess.CurrentUser)
	if err != nil {
		log.Error("failed to create item", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_upload", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

// DeleteGalleryItem godoc
// @Summary Delete an owned gallery item
// @Tags catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/gallery/{id} [delete]
func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	return r.deleteItem(c, models.KindGallery)
}

// DeleteReviewItem godoc
// @Summary Delete an owned review
// @Tags catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/reviews/{id} [delete]
func (r *Routers) DeleteReviewItem(c echo.Context) error {
	return r.deleteItem(c, models.KindReview)
}

func (r *Routers) deleteItem(c echo.Context, kind models.CatalogKind) error {
	const op = "http.routers.deleteItem"

	log := r.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	ctx := c.Request().Context()
	id := c.Param("id")

	sess, err := r.SessionService.Restore(ctx, r.sessionScope(c))
	if err != nil || !sess.IsLoggedIn {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	item, err := r.CatalogService.GetItem(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		log.Error("failed to fetch item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	if !r.SessionService.IsOwner(sess, item.ItemAuthor()) {
		return c.JSON(http.StatusForbidden, response.ErrForbidden)
	}

	if err := r.CatalogService.DeleteItem(ctx, kind, id); err != nil {
		log.Error("failed to delete item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "item deleted"})
}

// EditItem is acknowledged but not implemented; the edit affordance
// only logs today.
func (r *Routers) EditItem(c echo.Context) error {
	const op = "http.routers.EditItem"

	r.log.Info("edit requested",
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	return c.JSON(http.StatusNotImplemented, response.ErrNotImplemented)
}

// GalleryViewer godoc
// @Summary Apply a full-view navigator transition over the filtered gallery
// @Tags viewer
// @Accept json
// @Produce json
// @Param request body dto.ViewerTransitionRequest true "Current state and action"
// @Success 200 {object} response.Response{data=dto.ViewerView}
// @Router /api/v1/gallery/viewer [post]
func (r *Routers) GalleryViewer(c echo.Context) error {
	return r.viewerTransition(c, models.KindGallery)
}

// ReviewViewer godoc
// @Summary Apply a full-view navigator transition over the filtered reviews
// @Tags viewer
// @Accept json
// @Produce json
// @Param request body dto.ViewerTransitionRequest true "Current state and action"
// @Success 200 {object} response.Response{data=dto.ViewerView}
// @Router /api/v1/reviews/viewer [post]
func (r *Routers) ReviewViewer(c echo.Context) error {
	return r.viewerTransition(c, models.KindReview)
}

func (r *Routers) viewerTransition(c echo.Context, kind models.CatalogKind) error {
	const op = "http.routers.viewerTransition"

	var req dto.ViewerTransitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	ctx := c.Request().Context()

	items, err := r.CatalogService.FilteredItems(ctx, kind, req.Query)
	if err != nil {
		r.log.Error("failed to load filtered items", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	nav := viewer.NewNavigator(items)

	state := viewer.State{
		Open:       req.State.Open,
		ItemIndex:  req.State.ItemIndex,
		ImageIndex: req.State.ImageIndex,
		ViewMode:   viewer.ViewMode(req.State.ViewMode),
	}

	next := nav.Apply(state, viewer.Action(req.Action), req.TargetIndex)

	view := dto.ViewerView{
		State: dto.ViewerState{
			Open:       next.Open,
			ItemIndex:  next.ItemIndex,
			ImageIndex: next.ImageIndex,
			ViewMode:   string(next.ViewMode),
		},
		ItemCount: nav.Len(),
	}

	if item, ok := nav.Current(next); ok {
		view.ItemID = item.ItemID()
		view.Title = item.ItemTitle()
		view.Description = item.ItemDescription()
		view.Author = item.ItemAuthor()

		if review, isReview := item.(models.ReviewItem); isReview {
			view.Rating = review.Rating
			view.AttachmentCount = len(review.Attachments)
		}

		view.DisplaySrc, view.DisplayAlt = nav.DisplayImage(next)
		view.PositionIndicator = nav.PositionIndicator(next)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(view))
}

// Preview serves a stored preview blob.
func (r *Routers) Preview(c echo.Context) error {
	blob, ok := r.Previews.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	return c.Blob(http.StatusOK, blob.ContentType, blob.Data)
}

// HeroTypewriter streams typewriter frames for the hero headline as
// server-sent events until the client disconnects.
func (r *Routers) HeroTypewriter(c echo.Context) error {
	const op = "http.routers.HeroTypewriter"

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	for frame := range r.Hero.Run(ctx) {
		payload, err := json.Marshal(frame)
		if err != nil {
			r.log.Error("failed to marshal frame", slog.String("op", op), sl.Err(err))
			return nil
		}

		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return nil
		}
		res.Flush()
	}

	return nil
}

// Home godoc
// @Summary Home view payload
// @Tags pages
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (r *Routers) Home(c echo.Context) error {
	const op = "http.routers.Home"

	ctx := c.Request().Context()

	galleryItems, err := r.CatalogService.FilteredItems(ctx, models.KindGallery, "")
	if err != nil {
		r.log.Error("failed to load gallery items", slog.String("op", op), sl.Err(err))
	}

	reviewItems, err := r.CatalogService.FilteredItems(ctx, models.KindReview, "")
	if err != nil {
		r.log.Error("failed to load review items", slog.String("op", op), sl.Err(err))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]interface{}{
		"headline":      "We've got the best",
		"subtitle":      "From eye-catching thumbnails to powerful custom plugins, United Network connects you with skilled creators ready to elevate your vision.",
		"discord_url":   r.DiscordURL,
		"gallery_count": len(galleryItems),
		"review_count":  len(reviewItems),
	}))
}

// About godoc
// @Summary About view payload
// @Tags pages
// @Produce json
// @Success 200 {object} response.Response
// @Router /about [get]
func (r *Routers) About(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]interface{}{
		"title":   "About United Network",
		"tagline": "Empowering creators, connecting communities",
		"story": []string{
			"United Network is a creator-first marketplace built to connect Minecraft freelancers with clients who value quality, clarity, and creative precision.",
			"We believe every commission should be clean, transparent, and tailored to your vision.",
			"United Network was made by freelancers, for freelancers.",
		},
		"services": []string{
			"Custom Minecraft builds and structures",
			"Plugin development and customization",
			"Thumbnail and graphic design",
			"Custom skin creation",
			"Music production and sound design",
			"Video editing and motion graphics",
		},
		"discord_url": r.DiscordURL,
	}))
}

// Discord redirects straight to the community server and renders
// nothing itself.
func (r *Routers) Discord(c echo.Context) error {
	return c.Redirect(http.StatusFound, r.DiscordURL)
}

// sessionScope identifies the calling browser; it is the scope under
// which the session keys persist, the way a browser profile scopes its
// localStorage.
func (r *Routers) sessionScope(c echo.Context) string {
	sess, err := session.Get("session", c)
	if err != nil {
		return "anonymous"
	}

	if id, ok := sess.Values["scope_id"].(string); ok && id != "" {
		return id
	}

	id := uuid.New().String()
	sess.Values["scope_id"] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		r.log.Warn("failed to save cookie session", sl.Err(err))
	}

	return id
}

func readMultipartFiles(headers []*multipart.FileHeader) ([]services.IncomingFile, error) {
	var out []services.IncomingFile
	for _, h := range headers {
		src, err := h.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}

		out = append(out, services.IncomingFile{
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return out, nil
}

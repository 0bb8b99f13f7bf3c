package tests

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"united_network/internal/domain/models"
	uploadservice "united_network/internal/services/upload_service"
	"united_network/tests/suite"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	whitelistedUser = "cozmicwayz"
	whitelistedPass = "Apple321234"
)

func TestLoginUploadBrowseDelete_HappyPath(t *testing.T) {
	ctx, st := suite.New(t)

	scope := gofakeit.UUID()

	sess, err := st.SessionService.Login(ctx, scope, whitelistedUser, whitelistedPass)
	require.NoError(t, err)
	assert.True(t, sess.IsLoggedIn)
	assert.Equal(t, whitelistedUser, sess.CurrentUser)

	tokens, err := st.TokenService.GenerateTokens(ctx, sess.CurrentUser)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	title := gofakeit.ProductName()
	data := buildUpload(t, st, title, gofakeit.Sentence(8), nil)

	item, err := st.CatalogService.CreateGalleryItem(ctx, data, sess.CurrentUser)
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)
	require.Len(t, item.Images, 2)
	assert.Equal(t, title+" - Image 1", item.Images[0].Alt)

	page, err := st.CatalogService.List(ctx, models.KindGallery, "", 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, item.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].Owned)

	// search by a fragment of the title
	page, err = st.CatalogService.List(ctx, models.KindGallery, title[:4], 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = st.CatalogService.List(ctx, models.KindGallery, "no-such-item-anywhere", 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, st.CatalogService.DeleteItem(ctx, models.KindGallery, item.ID))

	page, err = st.CatalogService.List(ctx, models.KindGallery, "", 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, st.SessionService.Logout(ctx, scope))

	restored, err := st.SessionService.Restore(ctx, scope)
	require.NoError(t, err)
	assert.False(t, restored.IsLoggedIn)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx, st := suite.New(t)

	scope := gofakeit.UUID()

	_, err := st.SessionService.Login(ctx, scope, whitelistedUser, gofakeit.Password(true, true, true, false, false, 12))
	require.Error(t, err)

	_, err = st.SessionService.Login(ctx, scope, gofakeit.Username(), whitelistedPass)
	require.Error(t, err)

	sess, err := st.SessionService.Restore(ctx, scope)
	require.NoError(t, err)
	assert.False(t, sess.IsLoggedIn, "failed login must not persist a session")
}

func TestPagination_WindowAndOrder(t *testing.T) {
	ctx, st := suite.New(t)

	scope := gofakeit.UUID()

	sess, err := st.SessionService.Login(ctx, scope, whitelistedUser, whitelistedPass)
	require.NoError(t, err)

	const total = 20

	var lastTitle string
	for i := 0; i < total; i++ {
		lastTitle = fmt.Sprintf("Build %02d %s", i, gofakeit.Color())
		data := buildUpload(t, st, lastTitle, gofakeit.Sentence(6), nil)

		_, err := st.CatalogService.CreateGalleryItem(ctx, data, sess.CurrentUser)
		require.NoError(t, err)
	}

	page, err := st.CatalogService.List(ctx, models.KindGallery, "", 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)

	require.Len(t, page.Items, st.Cfg.ItemsPerPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, total, page.TotalItems)
	assert.Equal(t, []int{1, 2, 3}, page.PageNumbers)
	assert.False(t, page.HasPrevious)
	assert.True(t, page.HasNext)

	// newest upload leads the first page
	assert.Equal(t, lastTitle, page.Items[0].Title)

	last, err := st.CatalogService.List(ctx, models.KindGallery, "", 3, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	assert.Len(t, last.Items, total-2*st.Cfg.ItemsPerPage)
	assert.True(t, last.HasPrevious)
	assert.False(t, last.HasNext)

	// out-of-range pages clamp instead of erroring
	clamped, err := st.CatalogService.List(ctx, models.KindGallery, "", 99, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	assert.Equal(t, 3, clamped.Page)
}

func TestReviewUpload_PrimaryBecomesProfileImage(t *testing.T) {
	ctx, st := suite.New(t)

	scope := gofakeit.UUID()

	sess, err := st.SessionService.Login(ctx, scope, "levi", "cozmiclevi")
	require.NoError(t, err)

	rating := 4
	data := buildUpload(t, st, gofakeit.ProductName(), gofakeit.Sentence(10), &rating)

	review, err := st.CatalogService.CreateReviewItem(ctx, data, sess.CurrentUser)
	require.NoError(t, err)

	assert.Equal(t, 4, review.Rating)
	assert.NotEmpty(t, review.ProfileImageURL)
	require.Len(t, review.Attachments, 1)
	assert.Contains(t, review.Attachments[0].Alt, "Attachment 1")

	// the board query also matches the reviewer name
	page, err := st.CatalogService.List(ctx, models.KindReview, "levi", 1, st.Cfg.ItemsPerPage, sess)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, review.ID, page.Items[0].ID)
}

func TestRefreshTokens_RotatesAndConsumes(t *testing.T) {
	ctx, st := suite.New(t)

	tokens, err := st.TokenService.GenerateTokens(ctx, whitelistedUser)
	require.NoError(t, err)

	rotated, err := st.TokenService.RefreshTokens(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, whitelistedUser, rotated.Username)

	// the old refresh token is single use
	_, err = st.TokenService.RefreshTokens(ctx, tokens.RefreshToken)
	require.Error(t, err)
}

func buildUpload(t *testing.T, st *suite.Suite, title, description string, rating *int) models.UploadData {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	intake := uploadservice.NewIntake(log, st.Previews)

	ctx := context.Background()

	added := intake.AddFiles(ctx, []uploadservice.IncomingFile{
		{Filename: "primary.png", ContentType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
		{Filename: "extra.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
		{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("skipped")},
	})
	require.Equal(t, 2, added, "non-image files are rejected at intake")

	data, err := intake.Build(ctx, title, description, rating)
	require.NoError(t, err)

	return data
}

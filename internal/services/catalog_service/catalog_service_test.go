package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"united_network/internal/domain/models"
	"united_network/internal/repository"
	storage "united_network/internal/storage/previewstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*CatalogService, *repository.MemoryCatalogRepo, *storage.MemoryPreviewStore) {
	repo := repository.NewMemoryCatalogRepo()
	previews := storage.NewMemoryPreviewStore("/previews")
	return NewCatalogService(slog.Default(), repo, previews), repo, previews
}

func ratingOf(n int) *int { return &n }

func upload(title, desc string, fileCount int) models.UploadData {
	files := make([]models.UploadFile, 0, fileCount)
	for i := 0; i < fileCount; i++ {
		files = append(files, models.UploadFile{
			ID:          fmt.Sprintf("f%d", i),
			Filename:    fmt.Sprintf("img%d.png", i),
			ContentType: "image/png",
			Data:        []byte{byte(i)},
			IsPrimary:   i == 0,
		})
	}

	return models.UploadData{Title: title, Description: desc, Files: files}
}

func seedGallery(t *testing.T, svc *CatalogService, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := svc.CreateGalleryItem(context.Background(), upload(title, "desc of "+title, 1), "levi")
		require.NoError(t, err)
	}
}

func TestFilter_Properties(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	seedGallery(t, svc, "Medieval Castle", "Modern Skin", "Castle Garden", "Redstone Farm")

	filtered, err := svc.FilteredItems(ctx, models.KindGallery, "castle")
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	// every match contains the query case-insensitively
	for _, item := range filtered {
		hay := strings.ToLower(item.ItemTitle() + " " + item.ItemDescription())
		assert.Contains(t, hay, "castle")
	}

	// relative order preserved: items are newest-first, so Garden before Medieval
	assert.Equal(t, "Castle Garden", filtered[0].ItemTitle())
	assert.Equal(t, "Medieval Castle", filtered[1].ItemTitle())

	// completeness: nothing matching is left out
	all, err := svc.FilteredItems(ctx, models.KindGallery, "")
	require.NoError(t, err)
	for _, item := range all {
		if item.Matches("castle") {
			assert.Contains(t, filtered, item)
		}
	}
}

func TestFilter_EmptyQueryMatchesEverything(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	seedGallery(t, svc, "a", "b", "c")

	filtered, err := svc.FilteredItems(ctx, models.KindGallery, "")
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
}

func TestFilter_ReviewsMatchAuthorName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateReviewItem(ctx, upload("Great service", "Built my base fast", 1), "cozmicwayz")
	require.NoError(t, err)

	filtered, err := svc.FilteredItems(ctx, models.KindReview, "COZMIC")
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestList_PaginationPartition(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	titles := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		titles = append(titles, fmt.Sprintf("Build %02d", i))
	}
	seedGallery(t, svc, titles...)

	var seen []string
	page := 1
	for {
		result, err := svc.List(ctx, models.KindGallery, "", page, 9, models.Session{})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Items), 9)

		for _, card := range result.Items {
			seen = append(seen, card.ID)
		}
		if !result.HasNext {
			break
		}
		page++
	}

	// union of all pages reconstructs the filtered list exactly
	filtered, err := svc.FilteredItems(ctx, models.KindGallery, "")
	require.NoError(t, err)
	require.Len(t, seen, len(filtered))
	for i, item := range filtered {
		assert.Equal(t, item.ItemID(), seen[i])
	}
}

func TestList_OutOfRangePageClamps(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	seedGallery(t, svc, "a", "b", "c")

	result, err := svc.List(ctx, models.KindGallery, "", 99, 9, models.Session{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Items, 3)
}

func TestList_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	result, err := svc.List(ctx, models.KindGallery, "", 1, 9, models.Session{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalPages)
	assert.Equal(t, 1, result.Page)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrevious)
}

func TestList_OwnershipFlags(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	seedGallery(t, svc, "levi's build")

	owner := models.Session{IsLoggedIn: true, CurrentUser: "levi"}
	stranger := models.Session{IsLoggedIn: true, CurrentUser: "cozmicwayz"}
	loggedOut := models.Session{CurrentUser: "levi"}

	result, err := svc.List(ctx, models.KindGallery, "", 1, 9, owner)
	require.NoError(t, err)
	assert.True(t, result.Items[0].Owned)

	result, err = svc.List(ctx, models.KindGallery, "", 1, 9, stranger)
	require.NoError(t, err)
	assert.False(t, result.Items[0].Owned)

	result, err = svc.List(ctx, models.KindGallery, "", 1, 9, loggedOut)
	require.NoError(t, err)
	assert.False(t, result.Items[0].Owned)
}

func TestCreateGalleryItem(t *testing.T) {
	ctx := context.Background()
	svc, _, previews := newTestService()

	item, err := svc.CreateGalleryItem(ctx, upload("Castle", "A big castle", 3), "levi")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "levi", item.Author)
	require.Len(t, item.Images, 3)
	assert.True(t, item.Images[0].IsPrimary)
	assert.Equal(t, "Castle - Image 1", item.Images[0].Alt)
	assert.WithinDuration(t, time.Now().UTC(), item.CreatedAt, time.Minute)

	// every asset is backed by a stored blob
	for _, img := range item.Images {
		_, ok := previews.Get(ctx, img.Src)
		assert.True(t, ok)
	}
}

func TestCreateGalleryItem_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateGalleryItem(ctx, models.UploadData{Title: " ", Description: "d"}, "levi")
	assert.Error(t, err)

	_, err = svc.CreateGalleryItem(ctx, models.UploadData{Title: "t", Description: "d"}, "levi")
	assert.Error(t, err)
}

func TestCreateReviewItem(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	data := upload("Amazing builder", "Fast and friendly", 3)
	data.Rating = ratingOf(4)

	item, err := svc.CreateReviewItem(ctx, data, "cozmicwayz")
	require.NoError(t, err)

	assert.Equal(t, "cozmicwayz", item.AuthorName)
	assert.Equal(t, 4, item.Rating)
	assert.NotEmpty(t, item.ProfileImageURL)

	// profile image stays out of the attachment list
	require.Len(t, item.Attachments, 2)
	for _, a := range item.Attachments {
		assert.NotEqual(t, item.ProfileImageURL, a.Src)
		assert.False(t, a.IsPrimary)
	}
	assert.Equal(t, "Amazing builder - Attachment 1", item.Attachments[0].Alt)
}

func TestCreateReviewItem_DefaultRating(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	item, err := svc.CreateReviewItem(ctx, upload("ok", "fine", 1), "levi")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Rating)
	assert.Empty(t, item.Attachments)
}

func TestCreateReviewItem_RatingOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	data := upload("bad", "rating", 1)
	data.Rating = ratingOf(6)

	_, err := svc.CreateReviewItem(ctx, data, "levi")
	assert.Error(t, err)
}

func TestDeleteItem_ReleasesAssets(t *testing.T) {
	ctx := context.Background()
	svc, _, previews := newTestService()

	item, err := svc.CreateGalleryItem(ctx, upload("Castle", "desc", 2), "levi")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, models.KindGallery, item.ID))

	filtered, err := svc.FilteredItems(ctx, models.KindGallery, "")
	require.NoError(t, err)
	assert.Empty(t, filtered)

	for _, img := range item.Images {
		_, ok := previews.Get(ctx, img.Src)
		assert.False(t, ok)
	}
}

// failingPreviewStore fails Create after a set number of successes and
// records every URI it handed out.
type failingPreviewStore struct {
	*storage.MemoryPreviewStore
	failAfter int
	created   []string
}

func (f *failingPreviewStore) Create(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(f.created) >= f.failAfter {
		return "", fmt.Errorf("blob store full")
	}

	uri, err := f.MemoryPreviewStore.Create(ctx, filename, contentType, data)
	if err != nil {
		return "", err
	}

	f.created = append(f.created, uri)
	return uri, nil
}

func TestCreateReviewItem_AttachmentFailureReleasesProfileImage(t *testing.T) {
	ctx := context.Background()

	// profile image and first attachment store fine, second attachment fails
	previews := &failingPreviewStore{
		MemoryPreviewStore: storage.NewMemoryPreviewStore("/previews"),
		failAfter:          2,
	}
	svc := NewCatalogService(slog.Default(), repository.NewMemoryCatalogRepo(), previews)

	_, err := svc.CreateReviewItem(ctx, upload("Great build", "desc", 3), "levi")
	require.Error(t, err)

	require.Len(t, previews.created, 2)
	for _, uri := range previews.created {
		_, ok := previews.Get(ctx, uri)
		assert.False(t, ok, "blob %s must be released after a failed submission", uri)
	}
}

func TestDeleteItem_Missing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	err := svc.DeleteItem(ctx, models.KindGallery, "nope")
	assert.Error(t, err)
}

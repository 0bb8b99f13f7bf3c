package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"united_network/internal/domain/models"
	"united_network/internal/lib/logger/sl"
	"united_network/internal/lib/paging"
	"united_network/internal/metrics"
	"united_network/internal/repository"
	storage "united_network/internal/storage/previewstore"
	"united_network/internal/transport/http/dto"
)

// defaultAvatarURL backs a review whose submission somehow carried no
// usable primary file.
const defaultAvatarURL = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=100&h=100&fit=crop&crop=face"

const defaultRating = 5

type CatalogService struct {
	log      *slog.Logger
	repo     repository.CatalogRepository
	previews storage.PreviewStore
}

func NewCatalogService(log *slog.Logger, repo repository.CatalogRepository, previews storage.PreviewStore) *CatalogService {
	return &CatalogService{
		log:      log,
		repo:     repo,
		previews: previews,
	}
}

// Filter returns the ordered sublist of items matching the free-text
// query. Matching is case-insensitive substring over title and
// description, plus author name for reviews; the empty query matches
// everything. Order is source order restricted to matches.
func Filter(items []models.CatalogItem, query string) []models.CatalogItem {
	if query == "" {
		return items
	}

	var out []models.CatalogItem
	for _, item := range items {
		if item.Matches(query) {
			out = append(out, item)
		}
	}
	return out
}

// FilteredItems is the filtered view of one catalog, recomputed in full
// from the store on every call.
func (s *CatalogService) FilteredItems(ctx context.Context, kind models.CatalogKind, query string) ([]models.CatalogItem, error) {
	const op = "catalog_service.CatalogService.FilteredItems"

	items, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Filter(items, query), nil
}

// List produces one rendered catalog page. Out-of-range pages clamp to
// the valid range instead of failing.
func (s *CatalogService) List(ctx context.Context, kind models.CatalogKind, query string, page, perPage int, session models.Session) (*dto.CatalogPage, error) {
	const op = "catalog_service.CatalogService.List"

	log := s.log.With(
		slog.String("op", op),
		slog.String("kind", string(kind)),
		slog.String("query", query),
		slog.Int("page", page),
	)

	filtered, err := s.FilteredItems(ctx, kind, query)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if perPage <= 0 {
		perPage = paging.DefaultPerPage
	}

	totalPages := paging.TotalPages(len(filtered), perPage)
	page = paging.Clamp(page, totalPages)

	cards := make([]dto.CatalogCard, 0, perPage)
	for _, item := range paging.Slice(filtered, page, perPage) {
		cards = append(cards, s.mapToCard(item, session))
	}

	rangeStart, rangeEnd := paging.ResultRange(page, perPage, len(filtered))

	return &dto.CatalogPage{
		Items:       cards,
		Query:       query,
		Page:        page,
		PerPage:     perPage,
		TotalItems:  len(filtered),
		TotalPages:  totalPages,
		PageNumbers: paging.PageNumbers(page, totalPages),
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}, nil
}

// CreateGalleryItem turns a completed upload into a gallery entry. Every
// file becomes an image asset backed by a fresh preview URI, keeping
// list order and the primary flag.
func (s *CatalogService) CreateGalleryItem(ctx context.Context, data models.UploadData, author string) (models.GalleryItem, error) {
	const op = "catalog_service.CatalogService.CreateGalleryItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", data.Title),
	)

	if err := data.Validate(); err != nil {
		log.Warn("invalid upload data", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	images := make([]models.ImageAsset, 0, len(data.Files))
	for i, f := range data.Files {
		src, err := s.previews.Create(ctx, f.Filename, f.ContentType, f.Data)
		if err != nil {
			s.releaseAssets(ctx, images)
			log.Error("failed to store image", sl.Err(err))
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
		}

		images = append(images, models.ImageAsset{
			ID:        f.ID,
			Src:       src,
			Alt:       fmt.Sprintf("%s - Image %d", data.Title, i+1),
			IsPrimary: f.IsPrimary,
		})
	}

	item := models.GalleryItem{
		ID:          models.NewItemID(),
		Title:       data.Title,
		Description: data.Description,
		Images:      images,
		Author:      author,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Add(ctx, models.KindGallery, item); err != nil {
		s.releaseAssets(ctx, images)
		log.Error("failed to add gallery item", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CatalogItemsTotal.WithLabelValues(string(models.KindGallery)).Inc()

	log.Info("gallery item created", slog.String("id", item.ID))

	return item, nil
}

// CreateReviewItem turns a completed upload into a review entry: the
// primary file becomes the profile image, the remaining files become
// attachments. The profile image is never part of the attachment list.
func (s *CatalogService) CreateReviewItem(ctx context.Context, data models.UploadData, authorName string) (models.ReviewItem, error) {
	const op = "catalog_service.CatalogService.CreateReviewItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", data.Title),
	)

	if err := data.Validate(); err != nil {
		log.Warn("invalid upload data", sl.Err(err))
		return models.ReviewItem{}, fmt.Errorf("%s: %w", op, err)
	}

	profileURL := defaultAvatarURL
	primary, hasPrimary := data.PrimaryFile()
	if hasPrimary {
		src, err := s.previews.Create(ctx, primary.Filename, primary.ContentType, primary.Data)
		if err != nil {
			log.Error("failed to store profile image", sl.Err(err))
			return models.ReviewItem{}, fmt.Errorf("%s: %w", op, err)
		}
		profileURL = src
	}

	var attachments []models.ImageAsset
	attachmentNo := 0
	for _, f := range data.Files {
		if f.ID == primary.ID {
			continue
		}

		src, err := s.previews.Create(ctx, f.Filename, f.ContentType, f.Data)
		if err != nil {
			s.releaseAssets(ctx, attachments)
			if hasPrimary {
				_ = s.previews.Release(ctx, profileURL)
			}
			log.Error("failed to store attachment", sl.Err(err))
			return models.ReviewItem{}, fmt.Errorf("%s: %w", op, err)
		}

		attachmentNo++
		attachments = append(attachments, models.ImageAsset{
			ID:        f.ID,
			Src:       src,
			Alt:       fmt.Sprintf("%s - Attachment %d", data.Title, attachmentNo),
			IsPrimary: false,
		})
	}

	rating := defaultRating
	if data.Rating != nil {
		rating = *data.Rating
	}

	item := models.ReviewItem{
		ID:              models.NewItemID(),
		Title:           data.Title,
		Description:     data.Description,
		ProfileImageURL: profileURL,
		AuthorName:      authorName,
		Rating:          rating,
		CreatedAt:       time.Now().UTC(),
		Attachments:     attachments,
	}

	if err := s.repo.Add(ctx, models.KindReview, item); err != nil {
		s.releaseAssets(ctx, attachments)
		if hasPrimary {
			_ = s.previews.Release(ctx, profileURL)
		}
		log.Error("failed to add review item", sl.Err(err))
		return models.ReviewItem{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CatalogItemsTotal.WithLabelValues(string(models.KindReview)).Inc()

	log.Info("review item created", slog.String("id", item.ID))

	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, kind models.CatalogKind, id string) (models.CatalogItem, error) {
	const op = "catalog_service.CatalogService.GetItem"

	item, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// DeleteItem removes an entry and releases the preview blobs its assets
// pointed at. The service performs no authorization; the transport
// gates this behind the ownership check.
func (s *CatalogService) DeleteItem(ctx context.Context, kind models.CatalogKind, id string) error {
	const op = "catalog_service.CatalogService.DeleteItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("kind", string(kind)),
		slog.String("id", id),
	)

	item, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Remove(ctx, kind, id); err != nil {
		log.Error("failed to remove item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	switch it := item.(type) {
	case models.GalleryItem:
		s.releaseAssets(ctx, it.Images)
	case models.ReviewItem:
		s.releaseAssets(ctx, it.Attachments)
		_ = s.previews.Release(ctx, it.ProfileImageURL)
	}

	metrics.CatalogItemsTotal.WithLabelValues(string(kind)).Dec()

	log.Info("item deleted")

	return nil
}

func (s *CatalogService) mapToCard(item models.CatalogItem, session models.Session) dto.CatalogCard {
	card := dto.CatalogCard{
		ID:          item.ItemID(),
		Kind:        string(item.Kind()),
		Title:       item.ItemTitle(),
		Description: item.ItemDescription(),
		Author:      item.ItemAuthor(),
		CreatedAt:   item.ItemCreatedAt(),
		Owned:       session.Owns(item.ItemAuthor()),
	}

	if primary, ok := item.PrimaryImage(); ok {
		card.PrimaryImage = &primary
	}

	switch it := item.(type) {
	case models.GalleryItem:
		card.Images = it.Images
	case models.ReviewItem:
		card.ProfileImageURL = it.ProfileImageURL
		card.Rating = it.Rating
		card.Attachments = it.Attachments
	}

	return card
}

func (s *CatalogService) releaseAssets(ctx context.Context, assets []models.ImageAsset) {
	for _, a := range assets {
		if err := s.previews.Release(ctx, a.Src); err != nil {
			s.log.Warn("failed to release preview", sl.Err(err))
		}
	}
}

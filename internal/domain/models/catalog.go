package models

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

type CatalogKind string

const (
	KindGallery CatalogKind = "gallery"
	KindReview  CatalogKind = "review"
)

// ImageAsset is a single displayable image inside an item's image list.
// At most one asset per list carries IsPrimary; consumers fall back to
// the first element when none is flagged.
type ImageAsset struct {
	ID        string `json:"id"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	Width     *int   `json:"width,omitempty"`
	Height    *int   `json:"height,omitempty"`
}

// CatalogItem is the capability surface shared by gallery and review
// entries so that one viewer and one filter path can serve both kinds.
type CatalogItem interface {
	ItemID() string
	ItemTitle() string
	ItemDescription() string
	ItemAuthor() string
	ItemCreatedAt() time.Time
	Kind() CatalogKind
	PrimaryImage() (ImageAsset, bool)
	Matches(query string) bool
}

type GalleryItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Images      []ImageAsset `json:"images"`
	Author      string       `json:"author"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (g GalleryItem) ItemID() string           { return g.ID }
func (g GalleryItem) ItemTitle() string        { return g.Title }
func (g GalleryItem) ItemDescription() string  { return g.Description }
func (g GalleryItem) ItemAuthor() string       { return g.Author }
func (g GalleryItem) ItemCreatedAt() time.Time { return g.CreatedAt }
func (g GalleryItem) Kind() CatalogKind        { return KindGallery }

func (g GalleryItem) PrimaryImage() (ImageAsset, bool) {
	for _, img := range g.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(g.Images) > 0 {
		return g.Images[0], true
	}
	return ImageAsset{}, false
}

func (g GalleryItem) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(g.Title), q) ||
		strings.Contains(strings.ToLower(g.Description), q)
}

// ReviewItem keeps the author's profile image separate from the
// attachment list; the profile image is never part of Attachments.
type ReviewItem struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ProfileImageURL string       `json:"profile_image_url"`
	AuthorName      string       `json:"author_name"`
	Rating          int          `json:"rating"`
	CreatedAt       time.Time    `json:"created_at"`
	Attachments     []ImageAsset `json:"attachments,omitempty"`
}

func (r ReviewItem) ItemID() string           { return r.ID }
func (r ReviewItem) ItemTitle() string        { return r.Title }
func (r ReviewItem) ItemDescription() string  { return r.Description }
func (r ReviewItem) ItemAuthor() string       { return r.AuthorName }
func (r ReviewItem) ItemCreatedAt() time.Time { return r.CreatedAt }
func (r ReviewItem) Kind() CatalogKind        { return KindReview }

func (r ReviewItem) PrimaryImage() (ImageAsset, bool) {
	if r.ProfileImageURL == "" {
		return ImageAsset{}, false
	}
	return ImageAsset{ID: r.ID, Src: r.ProfileImageURL, Alt: r.AuthorName, IsPrimary: true}, true
}

func (r ReviewItem) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strings.ToLower(r.AuthorName), q)
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewItemID derives an identifier from the creation instant. Two items
// created in the same millisecond still get distinct, increasing IDs.
func NewItemID() string {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now

	return strconv.FormatInt(now, 10)
}

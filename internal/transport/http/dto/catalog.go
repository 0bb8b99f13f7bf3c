package dto

import (
	"time"

	"united_network/internal/domain/models"
)

// CatalogCard is the rendered form of one catalog entry. Gallery-only
// and review-only fields are omitted for the other kind.
type CatalogCard struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	Owned       bool      `json:"owned"`

	PrimaryImage *models.ImageAsset  `json:"primary_image,omitempty"`
	Images       []models.ImageAsset `json:"images,omitempty"`

	ProfileImageURL string              `json:"profile_image_url,omitempty"`
	Rating          int                 `json:"rating,omitempty"`
	Attachments     []models.ImageAsset `json:"attachments,omitempty"`
}

// CatalogPage is one page of the filtered catalog plus everything the
// pagination strip needs.
type CatalogPage struct {
	Items       []CatalogCard `json:"items"`
	Query       string        `json:"query"`
	Page        int           `json:"page"`
	PerPage     int           `json:"per_page"`
	TotalItems  int           `json:"total_items"`
	TotalPages  int           `json:"total_pages"`
	PageNumbers []int         `json:"page_numbers"`
	RangeStart  int           `json:"range_start"`
	RangeEnd    int           `json:"range_end"`
	HasPrevious bool          `json:"has_previous"`
	HasNext     bool          `json:"has_next"`
}

package services

import (
	"fmt"

	"united_network/internal/domain/models"
)

type ViewMode string

const (
	ViewModeProfile     ViewMode = "profile"
	ViewModeAttachments ViewMode = "attachments"
)

type Action string

const (
	ActionOpen            Action = "open"
	ActionClose           Action = "close"
	ActionNextItem        Action = "next_item"
	ActionPreviousItem    Action = "previous_item"
	ActionNextImage       Action = "next_image"
	ActionPreviousImage   Action = "previous_image"
	ActionShowProfile     Action = "show_profile"
	ActionShowAttachments Action = "show_attachments"
)

// State holds the three navigator cursors. A zero State is closed.
type State struct {
	Open       bool
	ItemIndex  int
	ImageIndex int
	ViewMode   ViewMode
}

// Navigator steps through a read-only snapshot of the filtered list,
// item by item, and within an item through its image list. It never
// mutates items.
type Navigator struct {
	items []models.CatalogItem
}

func NewNavigator(items []models.CatalogItem) *Navigator {
	return &Navigator{items: items}
}

func (n *Navigator) Len() int { return len(n.items) }

// Open positions the navigator on target with the image cursor and
// view mode reset. An empty list or out-of-range target yields the
// closed state: a guarded no-render, not an error.
func (n *Navigator) Open(target int) State {
	if len(n.items) == 0 || target < 0 || target >= len(n.items) {
		return State{}
	}

	return State{
		Open:       true,
		ItemIndex:  target,
		ImageIndex: 0,
		ViewMode:   ViewModeProfile,
	}
}

func (n *Navigator) Close(State) State {
	return State{}
}

// NextItem advances circularly and resets the per-item cursors.
func (n *Navigator) NextItem(s State) State {
	if !s.Open || len(n.items) == 0 {
		return s
	}

	next := s.ItemIndex + 1
	if next >= len(n.items) {
		next = 0
	}
	return State{Open: true, ItemIndex: next, ImageIndex: 0, ViewMode: ViewModeProfile}
}

// PreviousItem steps back circularly and resets the per-item cursors.
func (n *Navigator) PreviousItem(s State) State {
	if !s.Open || len(n.items) == 0 {
		return s
	}

	prev := s.ItemIndex - 1
	if prev < 0 {
		prev = len(n.items) - 1
	}
	return State{Open: true, ItemIndex: prev, ImageIndex: 0, ViewMode: ViewModeProfile}
}

// ActiveImages is the image list the image cursor runs over: a gallery
// item's images, or a review item's attachments while in attachments
// mode. Review profile mode has no image navigation.
func (n *Navigator) ActiveImages(s State) []models.ImageAsset {
	item, ok := n.current(s)
	if !ok {
		return nil
	}

	switch it := item.(type) {
	case models.GalleryItem:
		return it.Images
	case models.ReviewItem:
		if s.ViewMode == ViewModeAttachments {
			return it.Attachments
		}
		return nil
	default:
		return nil
	}
}

func (n *Navigator) NextImage(s State) State {
	images := n.ActiveImages(s)
	if !s.Open || len(images) == 0 {
		return s
	}

	next := s.ImageIndex + 1
	if next >= len(images) {
		next = 0
	}
	s.ImageIndex = next
	return s
}

func (n *Navigator) PreviousImage(s State) State {
	images := n.ActiveImages(s)
	if !s.Open || len(images) == 0 {
		return s
	}

	prev := s.ImageIndex - 1
	if prev < 0 {
		prev = len(images) - 1
	}
	s.ImageIndex = prev
	return s
}

// SetViewMode switches a review between its avatar and its attachment
// list, resetting the image cursor. Gallery items ignore it.
func (n *Navigator) SetViewMode(s State, mode ViewMode) State {
	item, ok := n.current(s)
	if !ok {
		return s
	}

	if _, isReview := item.(models.ReviewItem); !isReview {
		return s
	}

	s.ViewMode = mode
	s.ImageIndex = 0
	return s
}

// DisplayImage resolves the image to render for the current state:
// gallery items show the element at the image cursor, falling back to
// the flagged primary and then the first image; reviews show the avatar
// in profile mode and the cursored attachment otherwise.
func (n *Navigator) DisplayImage(s State) (src, alt string) {
	item, ok := n.current(s)
	if !ok {
		return "", ""
	}

	switch it := item.(type) {
	case models.ReviewItem:
		if s.ViewMode == ViewModeAttachments {
			if s.ImageIndex >= 0 && s.ImageIndex < len(it.Attachments) {
				a := it.Attachments[s.ImageIndex]
				return a.Src, a.Alt
			}
		}
		return it.ProfileImageURL, it.AuthorName
	case models.GalleryItem:
		if s.ImageIndex >= 0 && s.ImageIndex < len(it.Images) {
			img := it.Images[s.ImageIndex]
			alt := img.Alt
			if alt == "" {
				alt = it.Title
			}
			return img.Src, alt
		}
		if primary, ok := it.PrimaryImage(); ok {
			return primary.Src, it.Title
		}
		return "", it.Title
	default:
		return "", ""
	}
}

// PositionIndicator renders "current / total" for multi-image
// attachment browsing; empty when there is nothing to count through.
func (n *Navigator) PositionIndicator(s State) string {
	images := n.ActiveImages(s)
	if s.ViewMode != ViewModeAttachments || len(images) < 2 {
		return ""
	}

	return fmt.Sprintf("%d / %d", s.ImageIndex+1, len(images))
}

// Apply runs one transition. Unknown actions leave the state untouched.
func (n *Navigator) Apply(s State, action Action, target int) State {
	switch action {
	case ActionOpen:
		return n.Open(target)
	case ActionClose:
		return n.Close(s)
	case ActionNextItem:
		return n.NextItem(s)
	case ActionPreviousItem:
		return n.PreviousItem(s)
	case ActionNextImage:
		return n.NextImage(s)
	case ActionPreviousImage:
		return n.PreviousImage(s)
	case ActionShowProfile:
		return n.SetViewMode(s, ViewModeProfile)
	case ActionShowAttachments:
		return n.SetViewMode(s, ViewModeAttachments)
	default:
		return s
	}
}

// Current returns the item under the item cursor.
func (n *Navigator) Current(s State) (models.CatalogItem, bool) {
	return n.current(s)
}

func (n *Navigator) current(s State) (models.CatalogItem, bool) {
	if !s.Open || s.ItemIndex < 0 || s.ItemIndex >= len(n.items) {
		return nil, false
	}
	return n.items[s.ItemIndex], true
}

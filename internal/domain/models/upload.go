package models

import (
	"fmt"
	"strings"
)

// UploadFile is one file collected by the upload intake, already read
// into memory. PreviewURI points at the intake's preview blob and is
// cleared once the intake releases it.
type UploadFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	IsPrimary   bool   `json:"is_primary"`
	PreviewURI  string `json:"preview_uri,omitempty"`
}

// UploadData is the transient payload produced by a completed intake.
// Rating is set only for review submissions.
type UploadData struct {
	Title       string
	Description string
	Files       []UploadFile
	Rating      *int
}

// Validate enforces the submission contract: non-empty post-trim title
// and description, at least one file, and exactly one primary file.
func (d UploadData) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if len(d.Files) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	primaries := 0
	for _, f := range d.Files {
		if f.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("exactly one primary file expected, got %d", primaries)
	}

	if d.Rating != nil && (*d.Rating < 1 || *d.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	return nil
}

// PrimaryFile returns the flagged primary, falling back to the first
// file in list order.
func (d UploadData) PrimaryFile() (UploadFile, bool) {
	for _, f := range d.Files {
		if f.IsPrimary {
			return f, true
		}
	}
	if len(d.Files) > 0 {
		return d.Files[0], true
	}
	return UploadFile{}, false
}

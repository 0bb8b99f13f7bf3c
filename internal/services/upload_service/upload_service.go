package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"united_network/internal/domain/models"
	"united_network/internal/lib/logger/sl"
	storage "united_network/internal/storage/previewstore"

	"github.com/google/uuid"
)

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// IncomingFile is a file as it arrives from the picker or drag-and-drop,
// before the intake has accepted it.
type IncomingFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Intake collects the files and metadata of one upload form. Non-image
// files are silently excluded; the first accepted file of an empty list
// becomes primary; removing the primary promotes the new first file.
// Every accepted file gets a preview URI which the intake alone owns
// and releases, on removal, on successful Build, or on Reset.
type Intake struct {
	log      *slog.Logger
	previews storage.PreviewStore
	files    []models.UploadFile
}

func NewIntake(log *slog.Logger, previews storage.PreviewStore) *Intake {
	return &Intake{
		log:      log,
		previews: previews,
	}
}

// AddFiles accepts image files into the list, in order, and reports how
// many were accepted.
func (in *Intake) AddFiles(ctx context.Context, incoming []IncomingFile) int {
	const op = "upload_service.Intake.AddFiles"

	accepted := 0
	for _, f := range incoming {
		if !strings.HasPrefix(f.ContentType, "image/") {
			in.log.Debug("skipping non-image file",
				slog.String("op", op),
				slog.String("filename", f.Filename),
				slog.String("content_type", f.ContentType),
			)
			continue
		}

		uri, err := in.previews.Create(ctx, f.Filename, f.ContentType, f.Data)
		if err != nil {
			in.log.Warn("failed to create preview", slog.String("op", op), sl.Err(err))
			continue
		}

		in.files = append(in.files, models.UploadFile{
			ID:          uuid.New().String(),
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Data:        f.Data,
			IsPrimary:   len(in.files) == 0,
			PreviewURI:  uri,
		})
		accepted++
	}

	return accepted
}

// RemoveFile drops a file and releases its preview. If the primary was
// removed, the new first file is promoted.
func (in *Intake) RemoveFile(ctx context.Context, id string) {
	for i, f := range in.files {
		if f.ID != id {
			continue
		}

		if err := in.previews.Release(ctx, f.PreviewURI); err != nil {
			in.log.Warn("failed to release preview", sl.Err(err))
		}

		in.files = append(in.files[:i:i], in.files[i+1:]...)
		break
	}

	if len(in.files) > 0 && !in.hasPrimary() {
		in.files[0].IsPrimary = true
	}
}

// SetPrimary flags exactly one file as primary. Unknown ids are no-ops.
func (in *Intake) SetPrimary(id string) {
	found := false
	for _, f := range in.files {
		if f.ID == id {
			found = true
			break
		}
	}
	if !found {
		return
	}

	for i := range in.files {
		in.files[i].IsPrimary = in.files[i].ID == id
	}
}

// MoveFile swaps the file with its neighbor; moves past either end are
// no-ops.
func (in *Intake) MoveFile(id string, direction MoveDirection) {
	index := -1
	for i, f := range in.files {
		if f.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return
	}

	target := index + 1
	if direction == MoveUp {
		target = index - 1
	}
	if target < 0 || target >= len(in.files) {
		return
	}

	in.files[index], in.files[target] = in.files[target], in.files[index]
}

// Files returns a copy of the current list in display order.
func (in *Intake) Files() []models.UploadFile {
	out := make([]models.UploadFile, len(in.files))
	copy(out, in.files)
	return out
}

// Build validates the submission and produces the UploadData payload.
// On success the intake's preview resources are released and the form
// state is cleared; the returned files keep their bytes so the catalog
// can store them under fresh URIs.
func (in *Intake) Build(ctx context.Context, title, description string, rating *int) (models.UploadData, error) {
	const op = "upload_service.Intake.Build"

	data := models.UploadData{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Files:       in.Files(),
		Rating:      rating,
	}

	if err := data.Validate(); err != nil {
		return models.UploadData{}, fmt.Errorf("%s: %w", op, err)
	}

	in.Reset(ctx)

	for i := range data.Files {
		data.Files[i].PreviewURI = ""
	}

	return data, nil
}

// Reset releases every preview and empties the form, the same teardown
// that runs when the owning dialog closes.
func (in *Intake) Reset(ctx context.Context) {
	for _, f := range in.files {
		if err := in.previews.Release(ctx, f.PreviewURI); err != nil {
			in.log.Warn("failed to release preview", sl.Err(err))
		}
	}
	in.files = nil
}

func (in *Intake) hasPrimary() bool {
	for _, f := range in.files {
		if f.IsPrimary {
			return true
		}
	}
	return false
}

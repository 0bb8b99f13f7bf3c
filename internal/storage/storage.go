package storage

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNoSuchKey    = errors.New("no such key")
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)

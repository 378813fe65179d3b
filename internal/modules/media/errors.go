package media

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only JPEG, PNG, GIF and WebP images are accepted")
	ErrEmptyFile       = errors.New("file is empty")
)

package upload

import "errors"

var (
	ErrFolderMissing = errors.New("folder id is missing")
	ErrNotImage      = errors.New("not an image file")
)

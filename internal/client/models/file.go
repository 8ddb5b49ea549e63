// Package models defines the value types exchanged between the Photobooth
// client components: local files, upload requests and outcomes, list items,
// toasts and upload history records.
package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/photobooth/internal/filex"
)

// File is one user-selected file, the equivalent of a browser File object.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Path        string

	// Open returns a fresh reader over the file contents.
	Open func() (io.ReadCloser, error)
}

// IsImage reports whether the file's MIME type starts with "image/".
func (f File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.ContentType), "image/")
}

// NewLocalFile describes a file on disk, detecting its MIME type.
func NewLocalFile(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	ct, err := filex.ContentType(path)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: ct,
		Path:        path,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

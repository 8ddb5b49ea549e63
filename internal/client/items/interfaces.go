package items

import (
	"context"
	"io"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
)

// API is the slice of the backend client the manager needs.
type API interface {
	DeletePhoto(ctx context.Context, photoID string) (*models.ActionResult, error)
	DeleteFolder(ctx context.Context, folderID string) (*models.ActionResult, error)
	SharePhoto(ctx context.Context, photoID string) (*models.ActionResult, error)
	DeactivateQR(ctx context.Context, folderID string) (*models.ActionResult, error)
	DownloadPhoto(ctx context.Context, photoID string) (io.ReadCloser, string, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Notifier interface {
	Show(msg string, level models.Level) models.Toast
}

// View holds the rendered items; Remove drops one after a successful delete.
type View interface {
	Remove(item models.Item)
}

type Navigator interface {
	Location() string
	Navigate(target string) error
}

// History is told about deletions so local records can follow the server.
type History interface {
	MarkPhotoDeleted(ctx context.Context, photoID string) error
	MarkFolderDeleted(ctx context.Context, folderID string) error
}

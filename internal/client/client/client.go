package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/netx"
)

type Client interface {
	Close() error
	Upload(ctx context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadOutcome, error)
	DeletePhoto(ctx context.Context, photoID string) (*models.ActionResult, error)
	DeleteFolder(ctx context.Context, folderID string) (*models.ActionResult, error)
	SharePhoto(ctx context.Context, photoID string) (*models.ActionResult, error)
	DeactivateQR(ctx context.Context, folderID string) (*models.ActionResult, error)
	// DownloadPhoto returns the photo body and the file name suggested by the server.
	DownloadPhoto(ctx context.Context, photoID string) (io.ReadCloser, string, error)
	CheckAuth(ctx context.Context) (*models.AuthStatus, error)
}

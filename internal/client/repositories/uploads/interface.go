package uploads

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
)

var ErrNotFound = errors.New("upload record not found")

// Repository describes storage operations over UploadRecord rows.
type Repository interface {
	Insert(ctx context.Context, rec *models.UploadRecord) error

	// List returns live (not deleted) records, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*models.UploadRecord, error)

	GetByID(ctx context.Context, id string) (*models.UploadRecord, error)

	// FindByDigest returns live records whose content digest matches.
	FindByDigest(ctx context.Context, digest string) ([]*models.UploadRecord, error)

	// MarkDeleted flags every row of the given server photo id as deleted.
	MarkDeleted(ctx context.Context, photoID int64) (int64, error)

	// MarkFolderDeleted flags every row uploaded into folderID as deleted.
	MarkFolderDeleted(ctx context.Context, folderID string) (int64, error)

	SetMirrorKey(ctx context.Context, id, key string) error
}

package upload

import (
	"context"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/netx"
)

type Uploader interface {
	Upload(ctx context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadOutcome, error)
}

// ProgressSink renders per-file upload progress. Percent is in [0, 100].
// Hide with an empty name hides every progress line.
type ProgressSink interface {
	Start(name string)
	Update(name string, percent float64)
	Hide(name string)
}

type ResultSink interface {
	Show(r Result)
	Clear()
}

// FileSource is the current file selection.
type FileSource interface {
	Clear()
}

type Notifier interface {
	Show(msg string, level models.Level) models.Toast
}

// Target yields the folder and optional token uploads are sent to.
type Target interface {
	FolderID() string
	Token() string
}

type Recorder interface {
	Record(ctx context.Context, rec *models.UploadRecord) error
	SetMirrorKey(ctx context.Context, id, key string) error
}

// Mirror copies an uploaded photo to secondary storage and returns its key.
type Mirror interface {
	Put(ctx context.Context, folderID string, file models.File) (string, error)
}

package upload

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/client"
	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

const (
	msgImagesOnly    = "Please select image files only."
	msgFolderMissing = "Folder ID is missing."
	msgSuccess       = "Upload successful!"
	msgUploaded      = "Your photo has been uploaded successfully."
	msgConnection    = "Upload failed. Check your connection."
	msgTryAgain      = "Upload failed. Please try again."
)

type Deps struct {
	Uploader Uploader
	Progress ProgressSink
	Results  ResultSink
	Files    FileSource
	Notifier Notifier
	Target   Target

	// Optional.
	Recorder Recorder
	Mirror   Mirror
	Logger   logging.Logger
}

type Option func(*Controller)

// WithClock overrides the time source used for history records.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

type Controller struct {
	deps Deps
	log  logging.Logger
	now  func() time.Time
}

func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{deps: deps, log: deps.Logger, now: time.Now}
	if c.log == nil {
		c.log = logging.Nop()
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Result is the rendered outcome of one file.
type Result struct {
	File    models.File
	Outcome *models.UploadOutcome

	// Details is "<name> (<size>)".
	Details string
	URL     string
	Message string
	Digest  string
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// Batch is the set of uploads started by one HandleFiles call.
type Batch struct {
	g       errgroup.Group
	mu      sync.Mutex
	results []Result
}

// Wait blocks until every upload of the batch, including mirroring, is done.
// Results follow the order of the accepted files. A nil Batch yields nil.
func (b *Batch) Wait() []Result {
	if b == nil {
		return nil
	}
	_ = b.g.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Result(nil), b.results...)
}

func (b *Batch) set(i int, r Result) {
	b.mu.Lock()
	b.results[i] = r
	b.mu.Unlock()
}

// HandleFiles uploads every image in files. Non-images are dropped with a
// single warning. It returns nil when nothing was dispatched.
func (c *Controller) HandleFiles(ctx context.Context, files []models.File) *Batch {
	if len(files) == 0 {
		return nil
	}

	images := make([]models.File, 0, len(files))
	for _, f := range files {
		if f.IsImage() {
			images = append(images, f)
			continue
		}
		c.log.Debug(ctx, "skipping non-image file", "file", f.Name, "content_type", f.ContentType)
	}
	if len(images) < len(files) {
		c.deps.Notifier.Show(msgImagesOnly, models.LevelWarning)
	}
	if len(images) == 0 {
		return nil
	}

	folderID := c.deps.Target.FolderID()
	if folderID == "" {
		c.deps.Notifier.Show(msgFolderMissing, models.LevelDanger)
		return nil
	}
	token := c.deps.Target.Token()

	b := &Batch{results: make([]Result, len(images))}
	for i, f := range images {
		b.g.Go(func() error {
			b.set(i, c.uploadOne(ctx, f, folderID, token))
			return nil
		})
	}

	c.deps.Files.Clear()
	return b
}

// Upload runs the pipeline for a single file and waits for it.
func (c *Controller) Upload(ctx context.Context, f models.File) (Result, error) {
	if !f.IsImage() {
		c.deps.Notifier.Show(msgImagesOnly, models.LevelWarning)
		return Result{File: f, Err: ErrNotImage}, ErrNotImage
	}
	folderID := c.deps.Target.FolderID()
	if folderID == "" {
		c.deps.Notifier.Show(msgFolderMissing, models.LevelDanger)
		return Result{File: f, Err: ErrFolderMissing}, ErrFolderMissing
	}
	r := c.uploadOne(ctx, f, folderID, c.deps.Target.Token())
	return r, r.Err
}

// Reset clears the result panel, the progress display and the selection.
// Uploads already in flight keep running.
func (c *Controller) Reset() {
	c.deps.Results.Clear()
	c.deps.Progress.Hide("")
	c.deps.Files.Clear()
}

func (c *Controller) uploadOne(ctx context.Context, f models.File, folderID, token string) Result {
	log := c.log.With("file", f.Name, "folder_id", folderID)

	c.deps.Progress.Start(f.Name)
	c.deps.Progress.Update(f.Name, 0)

	h, _ := blake2b.New256(nil)
	sent := f
	sent.Open = hashingOpen(f.Open, h)

	out, err := c.deps.Uploader.Upload(ctx,
		models.UploadRequest{File: sent, FolderID: folderID, Token: token},
		func(n, total int64) {
			if total <= 0 {
				return
			}
			c.deps.Progress.Update(f.Name, float64(n)/float64(total)*100)
		})

	c.deps.Progress.Hide(f.Name)

	if err == nil && !out.Success {
		err = &client.StatusError{Status: 200, Message: out.Error}
	}
	if err != nil {
		msg := failureMessage(err)
		log.Warn(ctx, "upload failed", "err", err)
		c.deps.Notifier.Show(msg, models.LevelDanger)
		return Result{File: f, Outcome: out, Message: msg, Err: err}
	}

	name, size := out.FileName, out.FileSize
	if name == "" {
		name = f.Name
	}
	if size == 0 {
		size = f.Size
	}

	r := Result{
		File:    f,
		Outcome: out,
		Details: fmt.Sprintf("%s (%s)", name, FormatFileSize(size)),
		URL:     out.FileURL,
		Message: msgUploaded,
		Digest:  hex.EncodeToString(h.Sum(nil)),
	}
	c.deps.Results.Show(r)
	c.deps.Notifier.Show(msgSuccess, models.LevelSuccess)
	log.Info(ctx, "upload finished", "photo_id", out.PhotoID, "size", size)

	c.afterUpload(ctx, log, r, folderID, name, size)
	return r
}

// afterUpload writes the history row and mirrors the file. Failures here
// are logged only; the upload itself already succeeded.
func (c *Controller) afterUpload(ctx context.Context, log logging.Logger, r Result, folderID, name string, size int64) {
	rec := &models.UploadRecord{
		ID:         uuid.NewString(),
		PhotoID:    r.Outcome.PhotoID,
		FolderID:   folderID,
		FileName:   name,
		FileSize:   size,
		FileURL:    r.URL,
		Digest:     r.Digest,
		UploadedAt: c.now(),
	}
	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.Record(ctx, rec); err != nil {
			log.Error(ctx, "failed to record upload", "err", err)
			rec = nil
		}
	}

	if c.deps.Mirror == nil {
		return
	}
	key, err := c.deps.Mirror.Put(ctx, folderID, r.File)
	if err != nil {
		log.Warn(ctx, "mirror failed", "err", err)
		return
	}
	log.Debug(ctx, "mirrored", "key", key)
	if c.deps.Recorder != nil && rec != nil {
		if err := c.deps.Recorder.SetMirrorKey(ctx, rec.ID, key); err != nil {
			log.Error(ctx, "failed to store mirror key", "err", err)
		}
	}
}

func failureMessage(err error) string {
	var de *client.DecodeError
	var se *client.StatusError
	switch {
	case errors.As(err, &de):
		return "Error parsing response: " + de.Err.Error()
	case errors.As(err, &se):
		if se.Message != "" {
			return "Upload failed: " + se.Message
		}
		if se.Status == 200 {
			return msgTryAgain
		}
		return fmt.Sprintf("Upload failed. Server returned: %d", se.Status)
	case errors.Is(err, client.ErrUnauthorized):
		return "Upload failed: not authorized"
	default:
		return msgConnection
	}
}

func hashingOpen(open func() (io.ReadCloser, error), h hash.Hash) func() (io.ReadCloser, error) {
	if open == nil {
		return nil
	}
	return func() (io.ReadCloser, error) {
		rc, err := open()
		if err != nil {
			return nil, err
		}
		h.Reset()
		return struct {
			io.Reader
			io.Closer
		}{io.TeeReader(rc, h), rc}, nil
	}
}

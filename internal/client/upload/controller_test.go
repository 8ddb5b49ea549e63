package upload

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/client"
	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/fakebackend"
	"github.com/dmitrijs2005/photobooth/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

/*************
 * Fakes
 *************/

type fakeUploader struct {
	mu    sync.Mutex
	reqs  []models.UploadRequest
	bodys [][]byte
	fn    func(req models.UploadRequest) (*models.UploadOutcome, error)
}

func (f *fakeUploader) Upload(_ context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadOutcome, error) {
	rc, err := req.File.Open()
	if err != nil {
		return nil, err
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if progress != nil {
		progress(int64(len(body))/2, int64(len(body)))
		progress(int64(len(body)), int64(len(body)))
	}

	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.bodys = append(f.bodys, body)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(req)
	}
	return &models.UploadOutcome{Success: true, FileName: req.File.Name, FileSize: req.File.Size, FileURL: "/f/1", PhotoID: 1}, nil
}

func (f *fakeUploader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type progressEvent struct {
	kind    string
	name    string
	percent float64
}

type fakeProgress struct {
	mu     sync.Mutex
	events []progressEvent
}

func (p *fakeProgress) add(e progressEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}
func (p *fakeProgress) Start(name string)              { p.add(progressEvent{kind: "start", name: name}) }
func (p *fakeProgress) Update(name string, pc float64) { p.add(progressEvent{kind: "update", name: name, percent: pc}) }
func (p *fakeProgress) Hide(name string)               { p.add(progressEvent{kind: "hide", name: name}) }

type fakeResults struct {
	mu      sync.Mutex
	shown   []Result
	cleared int
}

func (r *fakeResults) Show(res Result) { r.mu.Lock(); r.shown = append(r.shown, res); r.mu.Unlock() }
func (r *fakeResults) Clear()          { r.mu.Lock(); r.cleared++; r.mu.Unlock() }

type fakeFiles struct{ cleared int }

func (f *fakeFiles) Clear() { f.cleared++ }

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []models.Toast
}

func (n *fakeNotifier) Show(msg string, level models.Level) models.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := models.Toast{Message: msg, Level: level}
	n.toasts = append(n.toasts, t)
	return t
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		out = append(out, string(t.Level)+": "+t.Message)
	}
	return out
}

type fixedTarget struct{ folder, token string }

func (t fixedTarget) FolderID() string { return t.folder }
func (t fixedTarget) Token() string    { return t.token }

type fakeRecorder struct {
	mu        sync.Mutex
	records   []*models.UploadRecord
	mirrorKey map[string]string
	err       error
}

func (r *fakeRecorder) Record(_ context.Context, rec *models.UploadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecorder) SetMirrorKey(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mirrorKey == nil {
		r.mirrorKey = map[string]string{}
	}
	r.mirrorKey[id] = key
	return nil
}

type fakeMirror struct {
	key string
	err error
}

func (m fakeMirror) Put(context.Context, string, models.File) (string, error) { return m.key, m.err }

type harness struct {
	up       *fakeUploader
	progress *fakeProgress
	results  *fakeResults
	files    *fakeFiles
	notifier *fakeNotifier
	recorder *fakeRecorder
	ctrl     *Controller
}

func newHarness(target Target, mirror Mirror) *harness {
	h := &harness{
		up:       &fakeUploader{},
		progress: &fakeProgress{},
		results:  &fakeResults{},
		files:    &fakeFiles{},
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
	}
	h.ctrl = New(Deps{
		Uploader: h.up,
		Progress: h.progress,
		Results:  h.results,
		Files:    h.files,
		Notifier: h.notifier,
		Target:   target,
		Recorder: h.recorder,
		Mirror:   mirror,
	}, WithClock(func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }))
	return h
}

func memFile(name, ct string, data []byte) models.File {
	return models.File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: ct,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

/*************
 * Tests
 *************/

func TestHandleFiles_Empty(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	assert.Nil(t, h.ctrl.HandleFiles(context.Background(), nil))
	assert.Nil(t, h.ctrl.HandleFiles(context.Background(), nil).Wait())
	assert.Empty(t, h.notifier.messages())
	assert.Equal(t, 0, h.up.calls())
}

func TestHandleFiles_OnlyNonImages(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	b := h.ctrl.HandleFiles(context.Background(), []models.File{
		memFile("notes.txt", "text/plain", []byte("x")),
		memFile("doc.pdf", "application/pdf", []byte("x")),
	})
	assert.Nil(t, b)
	assert.Equal(t, []string{"warning: Please select image files only."}, h.notifier.messages())
	assert.Equal(t, 0, h.up.calls())
}

func TestHandleFiles_MixedUploadsImagesAndWarnsOnce(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	b := h.ctrl.HandleFiles(context.Background(), []models.File{
		memFile("a.jpg", "image/jpeg", []byte("aaa")),
		memFile("notes.txt", "text/plain", []byte("x")),
		memFile("b.png", "image/png", []byte("bbbb")),
	})
	require.NotNil(t, b)
	results := b.Wait()

	require.Len(t, results, 2)
	assert.Equal(t, "a.jpg", results[0].File.Name)
	assert.Equal(t, "b.png", results[1].File.Name)
	assert.Equal(t, 2, h.up.calls())

	msgs := h.notifier.messages()
	assert.Equal(t, "warning: Please select image files only.", msgs[0])
	assert.ElementsMatch(t, []string{"success: Upload successful!", "success: Upload successful!"}, msgs[1:])
	assert.Equal(t, 1, h.files.cleared)
}

func TestHandleFiles_MissingFolder(t *testing.T) {
	h := newHarness(fixedTarget{}, nil)
	b := h.ctrl.HandleFiles(context.Background(), []models.File{memFile("a.jpg", "image/jpeg", []byte("x"))})
	assert.Nil(t, b)
	assert.Equal(t, []string{"danger: Folder ID is missing."}, h.notifier.messages())
	assert.Equal(t, 0, h.up.calls())
}

func TestUpload_SuccessRendersResult(t *testing.T) {
	data := bytes.Repeat([]byte{1}, 2097152)
	h := newHarness(fixedTarget{folder: "f1", token: "tok"}, nil)
	h.up.fn = func(req models.UploadRequest) (*models.UploadOutcome, error) {
		return &models.UploadOutcome{Success: true, FileName: "a.jpg", FileSize: 2097152, FileURL: "/f/1", PhotoID: 7}, nil
	}

	r, err := h.ctrl.Upload(context.Background(), memFile("a.jpg", "image/jpeg", data))
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Equal(t, "a.jpg (2.00 MB)", r.Details)
	assert.Equal(t, "/f/1", r.URL)
	assert.Equal(t, "Your photo has been uploaded successfully.", r.Message)

	sum := blake2b.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), r.Digest)

	require.Len(t, h.up.reqs, 1)
	assert.Equal(t, "f1", h.up.reqs[0].FolderID)
	assert.Equal(t, "tok", h.up.reqs[0].Token)

	require.Len(t, h.results.shown, 1)
	assert.Equal(t, []string{"success: Upload successful!"}, h.notifier.messages())

	ev := h.progress.events
	require.Len(t, ev, 5)
	assert.Equal(t, progressEvent{kind: "start", name: "a.jpg"}, ev[0])
	assert.Equal(t, progressEvent{kind: "update", name: "a.jpg", percent: 0}, ev[1])
	assert.Equal(t, 50.0, ev[2].percent)
	assert.Equal(t, 100.0, ev[3].percent)
	assert.Equal(t, "hide", ev[4].kind)

	require.Len(t, h.recorder.records, 1)
	rec := h.recorder.records[0]
	assert.Equal(t, int64(7), rec.PhotoID)
	assert.Equal(t, "f1", rec.FolderID)
	assert.Equal(t, r.Digest, rec.Digest)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), rec.UploadedAt)
}

func TestUpload_FallsBackToLocalNameAndSize(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	h.up.fn = func(models.UploadRequest) (*models.UploadOutcome, error) {
		return &models.UploadOutcome{Success: true, FileURL: "/f/2"}, nil
	}
	r, err := h.ctrl.Upload(context.Background(), memFile("local.jpg", "image/jpeg", make([]byte, 1536)))
	require.NoError(t, err)
	assert.Equal(t, "local.jpg (1.50 KB)", r.Details)
}

func TestUpload_FailureMapping(t *testing.T) {
	tests := []struct {
		name string
		out  *models.UploadOutcome
		err  error
		want string
	}{
		{"success false with error", &models.UploadOutcome{Success: false, Error: "Folder not found"}, nil, "Upload failed: Folder not found"},
		{"success false without error", &models.UploadOutcome{Success: false}, nil, "Upload failed. Please try again."},
		{"non-200 with message", nil, &client.StatusError{Status: 403, Message: "Invalid upload token"}, "Upload failed: Invalid upload token"},
		{"non-200 without message", nil, &client.StatusError{Status: 502}, "Upload failed. Server returned: 502"},
		{"transport", nil, client.ErrUnavailable, "Upload failed. Check your connection."},
		{"decode", nil, &client.DecodeError{Err: errors.New("unexpected EOF")}, "Error parsing response: unexpected EOF"},
		{"unauthorized", nil, client.ErrUnauthorized, "Upload failed: not authorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(fixedTarget{folder: "f1"}, nil)
			h.up.fn = func(models.UploadRequest) (*models.UploadOutcome, error) { return tt.out, tt.err }

			r, err := h.ctrl.Upload(context.Background(), memFile("a.jpg", "image/jpeg", []byte("x")))
			require.Error(t, err)
			assert.False(t, r.OK())
			assert.Equal(t, tt.want, r.Message)
			assert.Equal(t, []string{"danger: " + tt.want}, h.notifier.messages())
			assert.Empty(t, h.results.shown)
			assert.Empty(t, h.recorder.records)

			ev := h.progress.events
			require.NotEmpty(t, ev)
			assert.Equal(t, "hide", ev[len(ev)-1].kind, "progress hidden on failure")
		})
	}
}

func TestUpload_RejectsNonImageAndMissingFolder(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	_, err := h.ctrl.Upload(context.Background(), memFile("a.txt", "text/plain", []byte("x")))
	require.ErrorIs(t, err, ErrNotImage)

	h = newHarness(fixedTarget{}, nil)
	_, err = h.ctrl.Upload(context.Background(), memFile("a.jpg", "image/jpeg", []byte("x")))
	require.ErrorIs(t, err, ErrFolderMissing)
}

func TestUpload_MirrorKeyStored(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, fakeMirror{key: "photos/f1/a.jpg"})
	_, err := h.ctrl.Upload(context.Background(), memFile("a.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, "photos/f1/a.jpg", h.recorder.mirrorKey[h.recorder.records[0].ID])
}

func TestUpload_MirrorAndRecorderFailuresDoNotFailUpload(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, fakeMirror{err: errors.New("s3 down")})
	h.recorder.err = errors.New("disk full")

	r, err := h.ctrl.Upload(context.Background(), memFile("a.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Empty(t, h.recorder.mirrorKey)
}

func TestReset(t *testing.T) {
	h := newHarness(fixedTarget{folder: "f1"}, nil)
	h.ctrl.Reset()
	assert.Equal(t, 1, h.results.cleared)
	assert.Equal(t, 1, h.files.cleared)
	require.Len(t, h.progress.events, 1)
	assert.Equal(t, progressEvent{kind: "hide"}, h.progress.events[0])
}

func TestHandleFiles_AgainstBackend(t *testing.T) {
	fb := fakebackend.New("")
	url := fb.Start()
	defer fb.Close()
	fb.AddFolder("f1", "Wedding", "tok")

	c, err := client.NewHTTPClient(url)
	require.NoError(t, err)

	h := newHarness(fixedTarget{folder: "f1", token: "tok"}, nil)
	h.ctrl.deps.Uploader = c

	data := bytes.Repeat([]byte{0xAB}, 4096)
	results := h.ctrl.HandleFiles(context.Background(), []models.File{
		memFile("a.jpg", "image/jpeg", data),
		memFile("b.jpg", "image/jpeg", data),
	}).Wait()

	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Contains(t, r.Details, "(4.00 KB)")
		assert.Contains(t, r.URL, "/photo/view/")
	}
	assert.Len(t, fb.Requests(), 2)
	assert.Len(t, h.recorder.records, 2)

	h.ctrl.deps.Target = fixedTarget{folder: "f1", token: "wrong"}
	r, err := h.ctrl.Upload(context.Background(), memFile("c.jpg", "image/jpeg", data))
	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, "Upload failed: Invalid upload token", r.Message)
}

package cli

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/client/upload"
	"github.com/stretchr/testify/assert"
)

func TestProgressView_PrintsEachStepOnce(t *testing.T) {
	var out bytes.Buffer
	v := newProgressView(&out)

	v.Update("a.jpg", 50) // before Start: ignored
	v.Start("a.jpg")
	for _, p := range []float64{0, 3, 9.9, 10, 15, 55, 100, 100} {
		v.Update("a.jpg", p)
	}
	v.Hide("a.jpg")
	v.Update("a.jpg", 100)

	assert.Equal(t, "Uploading a.jpg...\n  a.jpg: 0%\n  a.jpg: 10%\n  a.jpg: 50%\n  a.jpg: 100%\n", out.String())
}

func TestProgressView_HideAll(t *testing.T) {
	var out bytes.Buffer
	v := newProgressView(&out)
	v.Start("a")
	v.Start("b")
	v.Hide("")
	out.Reset()

	v.Update("a", 40)
	v.Update("b", 40)
	assert.Empty(t, out.String())
}

func TestResultView(t *testing.T) {
	var out bytes.Buffer
	v := &resultView{out: &out}

	_, ok := v.Last()
	assert.False(t, ok)

	v.Show(upload.Result{Message: "Your photo has been uploaded successfully.", Details: "a.jpg (2.00 MB)", URL: "/f/1"})
	assert.Equal(t, "Your photo has been uploaded successfully.\n  a.jpg (2.00 MB)\n  View: /f/1\n", out.String())

	r, ok := v.Last()
	assert.True(t, ok)
	assert.Equal(t, "/f/1", r.URL)

	v.Clear()
	_, ok = v.Last()
	assert.False(t, ok)
}

func TestScanAndItemViews(t *testing.T) {
	var out bytes.Buffer
	sv := &scanView{out: &out}
	sv.ShowScanning()
	sv.ShowInvalid("hello")
	sv.ShowUnsupported("Browser Not Supported", "no camera")
	sv.Alert("denied")
	sv.ShowIdle()
	(&itemView{out: &out}).Remove(models.Item{Kind: models.ItemPhoto, ID: "1", Name: "a.jpg"})

	s := out.String()
	assert.Contains(t, s, "Scanning for a QR code")
	assert.Contains(t, s, "Invalid QR code: hello\nType 'scan' to scan again.")
	assert.Contains(t, s, "Browser Not Supported: no camera")
	assert.Contains(t, s, "! denied")
	assert.Contains(t, s, "Scanner stopped.")
	assert.Contains(t, s, "Removed photo a.jpg")
}

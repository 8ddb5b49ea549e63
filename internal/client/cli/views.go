package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/client/upload"
)

// progressStep is the percentage granularity of printed progress lines.
const progressStep = 10

type progressView struct {
	out io.Writer

	mu   sync.Mutex
	last map[string]int
}

func newProgressView(out io.Writer) *progressView {
	return &progressView{out: out, last: make(map[string]int)}
}

func (v *progressView) Start(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last[name] = -1
	fmt.Fprintf(v.out, "Uploading %s...\n", name)
}

func (v *progressView) Update(name string, percent float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	last, ok := v.last[name]
	if !ok {
		return
	}
	step := int(percent) / progressStep * progressStep
	if step <= last {
		return
	}
	v.last[name] = step
	fmt.Fprintf(v.out, "  %s: %d%%\n", name, step)
}

func (v *progressView) Hide(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if name == "" {
		clear(v.last)
		return
	}
	delete(v.last, name)
}

// resultView is the result panel; the last shown result stays until Clear.
type resultView struct {
	out io.Writer

	mu   sync.Mutex
	last *upload.Result
}

func (v *resultView) Show(r upload.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = &r
	fmt.Fprintf(v.out, "%s\n  %s\n  View: %s\n", r.Message, r.Details, r.URL)
}

func (v *resultView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = nil
}

func (v *resultView) Last() (upload.Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last == nil {
		return upload.Result{}, false
	}
	return *v.last, true
}

type scanView struct {
	out io.Writer
}

func (v *scanView) ShowScanning() {
	fmt.Fprintln(v.out, "Scanning for a QR code... (type 'stop' to cancel)")
}

func (v *scanView) ShowIdle() {
	fmt.Fprintln(v.out, "Scanner stopped.")
}

func (v *scanView) ShowInvalid(payload string) {
	fmt.Fprintf(v.out, "Invalid QR code: %s\nType 'scan' to scan again.\n", payload)
}

func (v *scanView) ShowUnsupported(title, message string) {
	fmt.Fprintf(v.out, "%s: %s\n", title, message)
}

func (v *scanView) Alert(message string) {
	fmt.Fprintf(v.out, "! %s\n", message)
}

type itemView struct {
	out io.Writer
}

func (v *itemView) Remove(item models.Item) {
	fmt.Fprintf(v.out, "Removed %s %s\n", item.Kind, item.Name)
}

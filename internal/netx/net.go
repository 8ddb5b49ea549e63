// Package netx holds small HTTP helpers shared by the Photobooth client:
// progress-reporting request bodies and presigned object uploads.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

// ProgressFunc receives the number of bytes sent so far and the total body size.
type ProgressFunc func(sent, total int64)

// ProgressReader counts bytes read through it and reports them to fn.
// A nil fn disables reporting.
type ProgressReader struct {
	r     io.Reader
	total int64
	sent  atomic.Int64
	fn    ProgressFunc
}

func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, fn: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		sent := p.sent.Add(int64(n))
		if p.fn != nil {
			p.fn(sent, p.total)
		}
	}
	return n, err
}

// Sent reports how many bytes have passed through the reader.
func (p *ProgressReader) Sent() int64 {
	return p.sent.Load()
}

// UploadToPresignedURL streams body to an S3-compatible presigned PUT URL.
// size must be the exact body length; it becomes the Content-Length.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url string, body io.Reader, size int64, contentType string) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UploadError{Status: resp.StatusCode, Body: string(b)}
	}
	return nil
}

// UploadError is returned for a non-200 presigned upload response.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %d %s; body: %s", e.Status, http.StatusText(e.Status), e.Body)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/logging"
	"github.com/dmitrijs2005/photobooth/internal/netx"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie the backend keeps its login session in.
const SessionCookieName = "session"

const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger

	sessionCookie string
	timeout       time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. Its Jar is replaced
// when a session cookie is configured.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithSessionCookie(value string) Option {
	return func(c *HTTPClient) { c.sessionCookie = value }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithTimeout bounds every request except uploads and downloads, which
// follow the caller's context only.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		logger:  logging.Nop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	} else {
		hc := *c.http
		c.http = &hc
	}

	// Redirects mean the session is gone and the backend wants a login page.
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	if c.sessionCookie != "" {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		jar.SetCookies(u, []*http.Cookie{{Name: SessionCookieName, Value: c.sessionCookie, Path: "/"}})
		c.http.Jar = jar
	}

	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path, "request_id", req.Header.Get("X-Request-ID"), "err", err)
		return nil, c.mapError(req.Context(), err)
	}
	c.logger.Debug(req.Context(), "request done",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Upload posts one file to /upload as multipart/form-data. The body is
// streamed with an exact Content-Length so progress can be reported.
//
// A 200 response is returned as an outcome even when success is false.
// Other statuses yield *StatusError, an unparseable 200 body *DecodeError.
func (c *HTTPClient) Upload(ctx context.Context, r models.UploadRequest, progress netx.ProgressFunc) (*models.UploadOutcome, error) {
	if r.File.Open == nil {
		return nil, errors.New("upload: file has no content")
	}

	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	if err := mw.WriteField("folder_id", r.FolderID); err != nil {
		return nil, err
	}
	if r.Token != "" {
		if err := mw.WriteField("token", r.Token); err != nil {
			return nil, err
		}
	}

	ct := r.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(r.File.Name)))
	h.Set("Content-Type", ct)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, err
	}
	prefixLen := head.Len()
	if err := mw.Close(); err != nil {
		return nil, err
	}
	prefix := head.Bytes()[:prefixLen]
	trailer := head.Bytes()[prefixLen:]

	f, err := r.File.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.File.Name, err)
	}
	defer f.Close()

	total := int64(len(prefix)) + r.File.Size + int64(len(trailer))
	body := netx.NewProgressReader(
		io.MultiReader(bytes.NewReader(prefix), io.LimitReader(f, r.File.Size), bytes.NewReader(trailer)),
		total, progress)

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", body)
	if err != nil {
		return nil, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out models.UploadOutcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *HTTPClient) DeletePhoto(ctx context.Context, photoID string) (*models.ActionResult, error) {
	return c.action(ctx, "/photo/delete/"+url.PathEscape(photoID))
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, folderID string) (*models.ActionResult, error) {
	return c.action(ctx, "/folder/delete/"+url.PathEscape(folderID))
}

func (c *HTTPClient) SharePhoto(ctx context.Context, photoID string) (*models.ActionResult, error) {
	return c.action(ctx, "/photo/share/"+url.PathEscape(photoID))
}

func (c *HTTPClient) DeactivateQR(ctx context.Context, folderID string) (*models.ActionResult, error) {
	return c.action(ctx, "/folder/deactivate_qr/"+url.PathEscape(folderID))
}

// action performs a GET against one of the JSON item endpoints. The
// backend answers 403 with {success:false, message}; that message ends
// up in the returned *StatusError.
func (c *HTTPClient) action(ctx context.Context, path string) (*models.ActionResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var res models.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &res, nil
}

func (c *HTTPClient) DownloadPhoto(ctx context.Context, photoID string) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/photo/download/"+url.PathEscape(photoID), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", statusError(resp)
	}

	name := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	if name == "" {
		name = "photo-" + photoID
	}
	return resp.Body, name, nil
}

func (c *HTTPClient) CheckAuth(ctx context.Context) (*models.AuthStatus, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/check_auth", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var st models.AuthStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &st, nil
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// statusError converts a non-200 response. Redirects and bare 401/403
// answers become ErrUnauthorized.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return ErrUnauthorized
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return ErrUnauthorized
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}

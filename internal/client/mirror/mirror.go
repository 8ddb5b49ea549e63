// Package mirror copies uploaded photos to an S3-compatible bucket. Objects
// are written through presigned PUT URLs and failed transfers are retried
// with exponential backoff.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/dmitrijs2005/photobooth/internal/logging"
	"github.com/dmitrijs2005/photobooth/internal/netx"
	"github.com/google/uuid"
)

const (
	presignExpiry   = 15 * time.Minute
	defaultMaxTries = 4
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) presigner { return s3.NewPresignClient(c) }
)

type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Mirror struct {
	bucket   string
	presign  presigner
	http     *http.Client
	backoff  func() backoff.BackOff
	maxTries uint
	now      func() time.Time
	log      logging.Logger
}

type Option func(*S3Mirror)

func WithHTTPClient(c *http.Client) Option {
	return func(m *S3Mirror) { m.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(m *S3Mirror) { m.log = l }
}

// WithRetry sets the number of attempts and the backoff between them.
func WithRetry(maxTries uint, b func() backoff.BackOff) Option {
	return func(m *S3Mirror) {
		m.maxTries = maxTries
		m.backoff = b
	}
}

func NewS3Mirror(ctx context.Context, cfg Config, opts ...Option) (*S3Mirror, error) {
	if !cfg.Enabled() {
		return nil, errors.New("mirror: bucket is not configured")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("mirror: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newMirror(cfg.Bucket, newS3PresignClient(client), opts...), nil
}

func newMirror(bucket string, p presigner, opts ...Option) *S3Mirror {
	m := &S3Mirror{
		bucket:   bucket,
		presign:  p,
		http:     http.DefaultClient,
		maxTries: defaultMaxTries,
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		now: time.Now,
		log: logging.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// StorageKey places a photo under its folder and upload date.
func StorageKey(t time.Time, folderID, name string) string {
	return fmt.Sprintf("photos/%s/%d/%d/%d/%v-%s",
		folderID, t.Year(), t.Month(), t.Day(), uuid.New(), filepath.Base(name))
}

// Put uploads the file and returns its object key. 4xx answers from the
// store are not retried.
func (m *S3Mirror) Put(ctx context.Context, folderID string, file models.File) (string, error) {
	if file.Open == nil {
		return "", errors.New("mirror: file has no content")
	}

	key := StorageKey(m.now(), folderID, file.Name)
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		req, err := m.presign.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(m.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(ct),
		}, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("presign: %w", err))
		}

		rc, err := file.Open()
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		defer rc.Close()

		err = netx.UploadToPresignedURL(ctx, m.http, req.URL, rc, file.Size, ct)
		var ue *netx.UploadError
		if errors.As(err, &ue) && ue.Status < http.StatusInternalServerError {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(m.backoff()),
		backoff.WithMaxTries(m.maxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			m.log.Debug(ctx, "mirror upload retry", "key", key, "err", err, "wait", d)
		}))
	if err != nil {
		return "", fmt.Errorf("mirror %s after %d attempt(s): %w", file.Name, attempt, err)
	}

	m.log.Info(ctx, "photo mirrored", "key", key, "bucket", m.bucket)
	return key, nil
}

// Package blob is the gateway to the external binary-object store. Notes
// reference their payloads through the {url, key} pair it returns; everything
// else in the core treats the store as opaque.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/campusnotes/core/internal/config"
	"github.com/campusnotes/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// Gateway wraps an S3-compatible object store.
type Gateway struct {
	client       *s3.Client
	httpClient   *http.Client
	bucket       string
	region       string
	endpoint     string
	customDomain string
	pathStyle    bool
	putTimeout   time.Duration
	logger       *zap.Logger
}

// PutMeta carries the desired name and MIME hint for an upload.
type PutMeta struct {
	Name        string
	ContentType string
}

// PutResult identifies a stored object.
type PutResult struct {
	URL string
	Key string
}

// New builds a Gateway from startup config.
func New(cfg config.S3Config, logger *zap.Logger) *Gateway {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.UsePathStyle(),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &Gateway{
		client:       s3.New(opts),
		httpClient:   &http.Client{Timeout: time.Duration(cfg.PutTimeoutSec) * time.Second},
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		endpoint:     cfg.Endpoint,
		customDomain: cfg.CustomDomain,
		pathStyle:    cfg.UsePathStyle(),
		putTimeout:   time.Duration(cfg.PutTimeoutSec) * time.Second,
		logger:       logger,
	}
}

// Put streams r to the object store. The reader is consumed exactly once;
// nothing is re-buffered on this side. Cancelling ctx abandons the upload.
func (g *Gateway) Put(ctx context.Context, r io.Reader, size int64, meta PutMeta) (PutResult, error) {
	key := buildObjectKey(meta.Name, time.Now())
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(ctx, g.putTimeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := g.client.PutObject(ctx, input); err != nil {
		return PutResult{}, apperr.Store("failed to upload file to storage", err)
	}

	return PutResult{URL: g.publicURL(key), Key: key}, nil
}

// Get opens the stored object for streaming back to a client.
func (g *Gateway) Get(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", 0, apperr.NotFound("file")
		}
		return nil, "", 0, apperr.Store("failed to read file from storage", err)
	}

	return out.Body, aws.ToString(out.ContentType), aws.ToInt64(out.ContentLength), nil
}

// Delete removes a stored object. A missing key is not an error: the caller
// only cares that the object is gone.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.putTimeout)
	defer cancel()

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.Store("failed to delete file from storage", err)
	}
	return nil
}

// FetchURL opens an externally hosted file for proxying. Used for notes
// created by reference instead of by upload.
func (g *Gateway) FetchURL(ctx context.Context, rawURL string) (io.ReadCloser, string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", 0, apperr.Store("invalid file url", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, apperr.Store("failed to fetch file from source", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, "", 0, apperr.NotFound("file")
		}
		return nil, "", 0, apperr.Store(
			fmt.Sprintf("file source responded with status %d", resp.StatusCode), nil)
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/folioworks/portfolio/config"
	"google.golang.org/api/option"
)

// ErrObjectNotFound is returned by Open when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is an open object body with the metadata needed to serve it.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (Object, error)
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// Open builds the media backend selected by cfg. It returns nil, nil when media is disabled.
func Open(ctx context.Context, cfg config.MediaConfig) (*Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		backend, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		return NewStorage(backend), nil
	case "gcs":
		if strings.TrimSpace(cfg.GCS.Bucket) == "" {
			return nil, errors.New("gcs: bucket is required")
		}
		var opts []option.ClientOption
		if file := strings.TrimSpace(cfg.GCS.CredentialsFile); file != "" {
			opts = append(opts, option.WithCredentialsFile(file))
		}
		client, err := gcs.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		return NewStorage(&GCSClient{client: client, bucket: cfg.GCS.Bucket, projectID: cfg.GCS.ProjectID}), nil
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Backend)
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Open returns the object stored under key. The caller closes Body.
func (s *Storage) Open(ctx context.Context, key string) (Object, error) {
	return s.backend.Open(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

package storage

import (
	"context"
	"testing"

	"github.com/folioworks/portfolio/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDisabledBackend(t *testing.T) {
	s, err := Open(context.Background(), config.MediaConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.MediaConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNewMinioClientRequiresCredentials(t *testing.T) {
	_, err := NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", Bucket: "media"})
	assert.EqualError(t, err, "minio access key and secret key are required")

	_, err = NewMinioClient(config.MinioConfig{AccessKey: "a", SecretKey: "b", Bucket: "media"})
	assert.EqualError(t, err, "minio endpoint is required")

	client, err := NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "media", client.Bucket())
}

func TestOpenGCSRequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), config.MediaConfig{Backend: "gcs", GCS: config.GCSConfig{Bucket: "  "}})
	assert.EqualError(t, err, "gcs: bucket is required")
}

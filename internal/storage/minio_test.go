package storage

import (
	"testing"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		useSSL     bool
		want       string
		wantSecure bool
	}{
		{"minio:9000", false, "minio:9000", false},
		{"s3.example.com", true, "s3.example.com", true},
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://localhost:9000", true, "localhost:9000", false},
		{"//objects.local", false, "objects.local", false},
	}

	for _, tt := range tests {
		got, secure := normalizeEndpoint(tt.raw, tt.useSSL)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.wantSecure, secure, tt.raw)
	}
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.StorageConfig{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewMinioClient(config.StorageConfig{Endpoint: "localhost:9000", Bucket: "sales"})
	assert.ErrorContains(t, err, "credentials")

	_, err = NewMinioClient(config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")

	client, err := NewMinioClient(config.StorageConfig{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "sales",
	})
	require.NoError(t, err)
	assert.Equal(t, "sales", client.bucket)
}

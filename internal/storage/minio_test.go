package storage

import (
	"testing"

	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointHost(t *testing.T) {
	tests := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"localhost:9000", false, "localhost:9000", false},
		{"localhost:9000", true, "localhost:9000", true},
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://minio:9000", true, "minio:9000", false},
	}
	for _, tt := range tests {
		host, secure := endpointHost(tt.endpoint, tt.useSSL)
		assert.Equal(t, tt.wantHost, host, tt.endpoint)
		assert.Equal(t, tt.wantSecure, secure, tt.endpoint)
	}
}

func TestNewMinioClient(t *testing.T) {
	_, err := NewMinioClient(config.StorageConfig{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewMinioClient(config.StorageConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.ErrorContains(t, err, "credentials")

	c, err := NewMinioClient(config.StorageConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "ledgers",
		Prefix:    "/raw/",
	})
	require.NoError(t, err)
	assert.Equal(t, "raw/2024/sales.csv", c.objectKey("/2024/sales.csv"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("a/b.CSV"))
	assert.Contains(t, contentType("x.xlsx"), "spreadsheetml")
	assert.Equal(t, "application/octet-stream", contentType("x.bin"))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://s3.example.com", endpointURL("//s3.example.com", true))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestNewSelectsDriver(t *testing.T) {
	cfg := config.StorageConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "ledgers",
	}

	c, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MinioClient{}, c)

	cfg.Driver = "gcs"
	_, err = New(cfg)
	assert.ErrorContains(t, err, "unknown storage driver")

	cfg.Driver = "s3"
	cfg.Bucket = ""
	_, err = New(cfg)
	assert.ErrorContains(t, err, "bucket")
}

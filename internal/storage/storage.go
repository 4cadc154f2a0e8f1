package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/inventory-analytics/internal/config"
)

// ObjectInfo represents metadata for a remote ledger file.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations used to pull and push ledger files.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New returns the client selected by cfg.Driver: "minio" (default) or "s3".
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "minio":
		return NewMinioClient(cfg)
	case "s3":
		return NewS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want minio or s3)", cfg.Driver)
	}
}

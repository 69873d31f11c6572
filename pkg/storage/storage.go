// Package storage reads and writes files on a configured disk: the local
// filesystem or an S3-compatible bucket (AWS S3, MinIO, R2).
//
//	disk, err := storage.New(storage.FromConfig())
//	rc, info, err := disk.Open(ctx, "files/product-specification.pdf")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalog/config"
)

// ErrNotExist is returned when a path has no file.
var ErrNotExist = errors.New("storage: file does not exist")

// Info describes a stored file.
type Info struct {
	Path         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

type Disk interface {
	// Put writes r to p, replacing any existing file.
	Put(ctx context.Context, p string, r io.Reader) error
	// Open streams p. The caller closes the reader.
	Open(ctx context.Context, p string) (io.ReadCloser, Info, error)
	Exists(ctx context.Context, p string) (bool, error)
	// Delete is a no-op for a missing file.
	Delete(ctx context.Context, p string) error
	URL(p string) string
}

// Config selects and configures a driver.
type Config struct {
	Driver    string // "local" or "s3"
	LocalRoot string
	BaseURL   string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
}

// FromConfig reads STORAGE_* and S3_* settings.
func FromConfig() Config {
	return Config{
		Driver:     config.StorageDisk(),
		LocalRoot:  config.StorageLocalRoot(),
		BaseURL:    config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
	}
}

// New builds the disk named by cfg.Driver.
func New(cfg Config) (Disk, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.LocalRoot, cfg.BaseURL)
	case "s3":
		return NewS3(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// clean normalizes p to a slash separated key with no leading slash and
// rejects paths that climb out of the disk root.
func clean(p string) (string, error) {
	c := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if c == "" || c == "." {
		return "", fmt.Errorf("storage: invalid path %q", p)
	}
	return c, nil
}

func contentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}

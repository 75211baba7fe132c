// Package storage persists uploaded resumes in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ResumeStore uploads resume files and returns publicly dereferenceable URLs.
type ResumeStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
	now        func() time.Time
}

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBase is the base URL under which bucket objects are publicly
	// served. Defaults to the endpoint itself.
	PublicBase string
}

// NewResumeStore connects to the object store and ensures the bucket exists.
func NewResumeStore(cfg Config) (*ResumeStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicBase := cfg.PublicBase
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &ResumeStore{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}, nil
}

// Upload stores a resume under a collision-resistant key derived from the
// upload time and original filename, and returns its public URL.
func (s *ResumeStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("resumes/%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], sanitizeFilename(filename))
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("upload resume: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key), nil
}

// PresignGet generates a short-lived signed URL for a stored resume. Used
// when the bucket is not publicly readable.
func (s *ResumeStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign resume: %w", err)
	}
	return u.String(), nil
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return url.PathEscape(name)
}

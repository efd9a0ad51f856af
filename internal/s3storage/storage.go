// Package s3storage wraps MinIO/S3 interactions for uploaded documents.
package s3storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dharsanguruparan/JobSift/internal/config"
)

// Storage is the storage collaborator behind the upload coordinator.
type Storage struct {
	client        *minio.Client
	bucket        string
	region        string
	endpoint      string
	useSSL        bool
	publicBaseURL string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.S3Region,
		endpoint:      cfg.S3Endpoint,
		useSSL:        cfg.S3UseSSL,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// EnsureBucket makes sure the document bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores a document under objectKey and returns its public URL. With
// overwrite disabled an existing key is an error rather than a silent
// replacement.
func (s *Storage) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string, overwrite bool) (string, error) {
	if !overwrite {
		_, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
		if err == nil {
			return "", fmt.Errorf("object %s already exists", objectKey)
		}
		if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.Code != "NoSuchBucket" {
			return "", fmt.Errorf("stat object %s: %w", objectKey, err)
		}
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, opts); err != nil {
		return "", fmt.Errorf("upload object %s: %w", objectKey, err)
	}
	return s.publicURL(objectKey), nil
}

// PresignURL returns a signed GET URL for the stored document.
func (s *Storage) PresignURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", objectKey, err)
	}
	return u.String(), nil
}

func (s *Storage) publicURL(objectKey string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + objectKey
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectKey)
}

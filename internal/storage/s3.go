package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// DocumentStorage stores uploaded financial documents in S3-compatible storage.
type DocumentStorage struct {
	cfg    S3Config
	client s3Client
}

// NewDocumentStorage creates document storage. If credentials are missing the
// storage is left unconfigured and uploads will fail with an explicit error.
func NewDocumentStorage(cfg S3Config) *DocumentStorage {
	ds := &DocumentStorage{cfg: cfg}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		ds.client = newS3Client(cfg)
	}
	return ds
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Configured returns true if storage credentials are set.
func (ds *DocumentStorage) Configured() bool {
	return ds.client != nil
}

// ObjectKey builds the storage key for a user's document.
// Filenames are flattened to their base name to keep keys path-safe.
func ObjectKey(userID, documentID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%s/%s-%s", userID, documentID, base)
}

// Upload stores a document under the given key.
func (ds *DocumentStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if ds.client == nil {
		return fmt.Errorf("document storage not configured: S3 credentials missing")
	}

	_, err := ds.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ds.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload to s3: %w", err)
	}
	return nil
}

// Download streams a stored document. The caller must close the reader.
func (ds *DocumentStorage) Download(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if ds.client == nil {
		return nil, 0, fmt.Errorf("document storage not configured")
	}

	result, err := ds.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ds.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("download from s3: %w", err)
	}

	var size int64
	if result.ContentLength != nil {
		size = *result.ContentLength
	}
	return result.Body, size, nil
}

// Delete removes a stored document.
func (ds *DocumentStorage) Delete(ctx context.Context, key string) error {
	if ds.client == nil {
		return fmt.Errorf("document storage not configured")
	}

	_, err := ds.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ds.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}

// Package imagestore uploads and deletes hosted images on an S3-compatible
// object store. An upload returns a public URL plus an opaque handle (the
// object key) used for later deletion.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store is the interface the services depend on.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (*UploadResult, error)
	Delete(ctx context.Context, handle string) error
}

// UploadResult holds the public URL and the deletion handle of an uploaded image.
type UploadResult struct {
	URL    string
	Handle string
}

// Config holds the object store connection details.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store is an S3-backed implementation of Store. It works against AWS S3
// or any S3-compatible endpoint such as MinIO.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New creates an S3Store from the given config.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

// extensions maps the accepted image mime types to object key suffixes.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// objectKey builds a unique key under folder for the given content type.
func objectKey(folder, contentType string) string {
	ext := extensions[contentType]
	return fmt.Sprintf("%s/%s%s", folder, uuid.New(), ext)
}

// Upload stores the image buffer under a fresh key and returns its public
// URL together with the key as the deletion handle.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType, folder string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image buffer")
	}

	key := objectKey(folder, contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{
		URL:    fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
		Handle: key,
	}, nil
}

// Delete removes the object identified by handle.
func (s *S3Store) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", handle, err)
	}
	return nil
}

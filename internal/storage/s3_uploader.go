package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// ErrNotConfigured is returned when no object storage is set up.
var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader stores a file and returns the URL it can be fetched from
type Uploader interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// S3Uploader handles uploading files to S3-compatible storage
type S3Uploader struct {
	s3Client      s3iface.S3API
	bucket        string
	publicBaseURL string
}

// Config holds configuration for S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	// PublicBaseURL prefixes object keys in returned URLs. Defaults to
	// "{Endpoint}/{Bucket}".
	PublicBaseURL string
}

// Configured reports whether enough settings are present to build an uploader.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Bucket != ""
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete: %w", ErrNotConfigured)
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured: %w", ErrNotConfigured)
	}

	region := config.Region
	if region == "" {
		region = "us-east-1"
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3Uploader(s3.New(sess), config), nil
}

func newS3Uploader(client s3iface.S3API, config *Config) *S3Uploader {
	base := config.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(config.Endpoint, "/") + "/" + config.Bucket
	}
	return &S3Uploader{
		s3Client:      client,
		bucket:        config.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}
}

// Upload puts data under key and returns its public URL
func (u *S3Uploader) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("object key is empty")
	}

	_, err := u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}

package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadReturnsPublicURL(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, &Config{Endpoint: "https://files.example.com/", Bucket: "exports"})

	url, err := u.Upload(context.Background(), []byte("xlsx"), "/jobs/job-1.xlsx", "application/octet-stream")
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.com/exports/jobs/job-1.xlsx", url)
	assert.Equal(t, "exports", aws.StringValue(fake.input.Bucket))
	assert.Equal(t, "jobs/job-1.xlsx", aws.StringValue(fake.input.Key))
	assert.Equal(t, int64(4), aws.Int64Value(fake.input.ContentLength))
	assert.Equal(t, []byte("xlsx"), fake.body)
}

func TestUploadCustomBaseAndErrors(t *testing.T) {
	fake := &fakeS3{err: errors.New("denied")}
	u := newS3Uploader(fake, &Config{Endpoint: "https://s3", Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com", u.publicBaseURL)

	_, err := u.Upload(context.Background(), nil, "a.xlsx", "x")
	assert.ErrorContains(t, err, "denied")

	_, err = u.Upload(context.Background(), nil, "/", "x")
	assert.Error(t, err)
}

func TestNewS3UploaderRequiresConfig(t *testing.T) {
	_, err := NewS3Uploader(&Config{Endpoint: "https://s3"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.False(t, Config{Endpoint: "x", AccessKeyID: "k", AccessKeySecret: "s"}.Configured())
	assert.True(t, Config{Endpoint: "x", AccessKeyID: "k", AccessKeySecret: "s", Bucket: "b"}.Configured())
}

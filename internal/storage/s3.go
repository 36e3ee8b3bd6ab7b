package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 stores objects in an S3 (or S3-compatible) bucket.  All keys are
// placed under Prefix so the bucket can be shared with other uses.
// PublicBase is the address the bucket's objects are served from; it
// must not end with a slash.
type S3 struct {
	Bucket     string
	Prefix     string
	PublicBase string

	uploader *s3manager.Uploader
	svc      *s3.S3
}

// NewS3 builds an S3 store on top of an AWS session.  Credentials and
// endpoint come from the session, so MinIO and other S3-compatible
// providers work by pointing the session at their endpoint.
func NewS3(sess *session.Session, bucket, prefix, publicBase string) *S3 {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{
		Bucket:     bucket,
		Prefix:     prefix,
		PublicBase: strings.TrimRight(publicBase, "/"),
		uploader:   s3manager.NewUploader(sess),
		svc:        s3.New(sess),
	}
}

// Upload streams content to the bucket under Prefix+key.
func (s *S3) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := s.uploader.UploadWithContext(ctx, input)
	return err
}

// Delete removes the object at Prefix+key.  S3 treats deleting a
// missing key as success, which matches the Store contract.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
	})
	return err
}

// PublicURL returns the browser-accessible URL for a key.
func (s *S3) PublicURL(key string) string {
	if key == "" {
		return s.PublicBase
	}
	return s.PublicBase + "/" + key
}

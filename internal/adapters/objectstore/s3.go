// Package objectstore provides the object storage backends behind remote.Storage:
// an S3-compatible bucket and a local directory for development.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ascend/internal/adapters/remote"
)

// S3Config configures an S3-compatible bucket.
type S3Config struct {
	Endpoint  string // empty uses the AWS default for Region
	Region    string // "auto" for R2-style providers
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // base for public object URLs
	PathStyle bool
}

// s3API is the subset of *s3.Client the bucket uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Bucket stores objects in an S3-compatible bucket.
type S3Bucket struct {
	client    s3API
	bucket    string
	publicURL string
}

var _ remote.Storage = (*S3Bucket)(nil)

// NewS3Bucket builds a bucket client with static credentials.
// PRE: cfg.Bucket, cfg.AccessKey and cfg.SecretKey are set
// POST: Returns a bucket ready for uploads, or an error if the AWS config cannot load
func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("bucket, access key and secret key are required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return newS3Bucket(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Bucket(client s3API, bucket, publicURL string) *S3Bucket {
	return &S3Bucket{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload writes one object.
// PRE: path is a validated object path
// POST: Object stored with the given content type
func (b *S3Bucket) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", path, err)
	}
	slog.Debug("bucket_put", "bucket", b.bucket, "key", path)
	return nil
}

// PublicURL returns the public address of path.
func (b *S3Bucket) PublicURL(path string) string {
	if b.publicURL == "" {
		return "/" + path
	}
	return b.publicURL + "/" + path
}

// Remove deletes each path, stopping at the first failure.
func (b *S3Bucket) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(p),
		})
		if err != nil {
			return fmt.Errorf("delete object %s: %w", p, err)
		}
		slog.Debug("bucket_delete", "bucket", b.bucket, "key", p)
	}
	return nil
}

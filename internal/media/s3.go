package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"blogx/internal/config"
	"blogx/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store stores images in an S3-compatible bucket (AWS S3, MinIO).
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store creates an S3-backed media store from application config.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if cfg.MediaBucket == "" {
		return nil, errors.New("media bucket name is required")
	}

	region := cfg.MediaRegion
	if region == "" {
		region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if cfg.MediaAccessKey != "" && cfg.MediaSecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.MediaAccessKey,
				cfg.MediaSecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if cfg.MediaEndpoint != "" {
		// Custom endpoint for S3-compatible services (MinIO, etc.)
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.MediaEndpoint)
			o.UsePathStyle = cfg.MediaPathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	baseURL := cfg.MediaBaseURL
	if baseURL == "" {
		if cfg.MediaEndpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.MediaEndpoint, "/"), cfg.MediaBucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.MediaBucket, region)
		}
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.MediaBucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores the content under a random object key, preserving the
// original file extension, and returns the public URL and the key.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error) {
	key := uuid.NewString()
	if ext := path.Ext(filename); ext != "" {
		key += ext
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		middleware.MediaOperations.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	middleware.MediaOperations.WithLabelValues("upload", "ok").Inc()

	return &UploadResult{
		URL: fmt.Sprintf("%s/%s", s.baseURL, key),
		Key: key,
	}, nil
}

// Delete removes the object identified by key from the bucket.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		middleware.MediaOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	middleware.MediaOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Package storage provides the object store used for uploaded media. It
// speaks the S3 API via aws-sdk-go-v2, which covers both Amazon S3 and
// S3-compatible services such as Cloudflare R2 when a custom endpoint is
// configured.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is a stored blob opened for reading. Body must be closed by the
// caller. Size is the number of bytes Body will yield, which for a range read
// is the slice length, not the full object size.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store is the object-store contract the media layer depends on.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (*Object, error)
	GetRange(ctx context.Context, key string, start, end int64) (*Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool
}

// Config contains object storage configuration.
type Config struct {
	Bucket         string        `env:"STORAGE_BUCKET,required"`
	Region         string        `env:"STORAGE_REGION" envDefault:"auto"`
	AccessKeyID    string        `env:"STORAGE_ACCESS_KEY_ID" envDefault:""`
	SecretKey      string        `env:"STORAGE_SECRET_KEY" envDefault:""`
	Endpoint       string        `env:"STORAGE_ENDPOINT" envDefault:""` // R2/MinIO endpoint; empty for AWS S3
	ForcePathStyle bool          `env:"STORAGE_FORCE_PATH_STYLE" envDefault:"false"`
	UploadTimeout  time.Duration `env:"STORAGE_UPLOAD_TIMEOUT" envDefault:"2m"`
}

// S3Client is the subset of the S3 API the store uses. Narrowing the surface
// keeps the store mockable in tests.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
}

// S3Store implements Store on top of the S3 API.
type S3Store struct {
	client        S3Client
	bucket        string
	uploadTimeout time.Duration
}

// Compile-time check that S3Store satisfies Store.
var _ Store = (*S3Store)(nil)

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithS3Client sets a pre-configured client. Primarily used for testing.
func WithS3Client(client S3Client) S3Option {
	return func(s *S3Store) {
		s.client = client
	}
}

// New creates an S3-backed object store from configuration.
func New(ctx context.Context, cfg Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	s := &S3Store{
		bucket:        cfg.Bucket,
		uploadTimeout: cfg.UploadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		awsOptions := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		s.client = s3aws.NewFromConfig(awsConfig, func(o *s3aws.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return s, nil
}

// Put stores an object under key with the given content type.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	_, err := s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return classifyError(err, "put object")
	}
	return nil
}

// Get opens the full object for reading.
func (s *S3Store) Get(ctx context.Context, key string) (*Object, error) {
	return s.get(ctx, key, "")
}

// GetRange opens the byte range [start, end] (inclusive, zero-based) of the
// object for reading.
func (s *S3Store) GetRange(ctx context.Context, key string, start, end int64) (*Object, error) {
	return s.get(ctx, key, fmt.Sprintf("bytes=%d-%d", start, end))
}

func (s *S3Store) get(ctx context.Context, key, rangeSpec string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	input := &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if rangeSpec != "" {
		input.Range = aws.String(rangeSpec)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, classifyError(err, "get object")
	}

	return &Object{
		Body:        out.Body,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

// Delete removes the object. Deleting a missing key reports ErrObjectNotFound
// so callers can distinguish already-gone from failed.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	// DeleteObject is a no-op for missing keys; a head check first gives
	// callers a consistent not-found signal.
	if _, err := s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyError(err, "check object")
	}

	if _, err := s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyError(err, "delete object")
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (s *S3Store) Exists(ctx context.Context, key string) bool {
	if validateKey(key) != nil {
		return false
	}
	_, err := s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func validateKey(key string) error {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

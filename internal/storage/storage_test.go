package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uilab/internal/storage"
)

type mockS3Client struct {
	putObject    func(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	getObject    func(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	headObject   func(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	deleteObject func(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	return m.putObject(ctx, params, optFns...)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	return m.getObject(ctx, params, optFns...)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	return m.headObject(ctx, params, optFns...)
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	return m.deleteObject(ctx, params, optFns...)
}

func newTestStore(t *testing.T, client *mockS3Client) *storage.S3Store {
	t.Helper()
	store, err := storage.New(context.Background(), storage.Config{
		Bucket:        "test-bucket",
		Region:        "auto",
		UploadTimeout: time.Minute,
	}, storage.WithS3Client(client))
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()

		_, err := storage.New(context.Background(), storage.Config{Region: "auto"})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("missing region", func(t *testing.T) {
		t.Parallel()

		_, err := storage.New(context.Background(), storage.Config{Bucket: "b"})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestS3Store_Put(t *testing.T) {
	t.Parallel()

	t.Run("passes bucket, key and content type", func(t *testing.T) {
		t.Parallel()

		var got *s3aws.PutObjectInput
		store := newTestStore(t, &mockS3Client{
			putObject: func(_ context.Context, params *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
				got = params
				return &s3aws.PutObjectOutput{}, nil
			},
		})

		err := store.Put(context.Background(), "uploads/a.png", "image/png", bytes.NewReader([]byte("data")))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "test-bucket", aws.ToString(got.Bucket))
		assert.Equal(t, "uploads/a.png", aws.ToString(got.Key))
		assert.Equal(t, "image/png", aws.ToString(got.ContentType))

		body, err := io.ReadAll(got.Body)
		require.NoError(t, err)
		assert.Equal(t, "data", string(body))
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{})
		err := store.Put(context.Background(), "", "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{})
		err := store.Put(context.Background(), "a/../b", "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})
}

func TestS3Store_Get(t *testing.T) {
	t.Parallel()

	t.Run("full object has no range header", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{
			getObject: func(_ context.Context, params *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
				assert.Nil(t, params.Range)
				return &s3aws.GetObjectOutput{
					Body:          io.NopCloser(strings.NewReader("hello")),
					ContentLength: aws.Int64(5),
					ContentType:   aws.String("text/plain"),
				}, nil
			},
		})

		obj, err := store.Get(context.Background(), "a.txt")
		require.NoError(t, err)
		defer obj.Body.Close()

		assert.Equal(t, int64(5), obj.Size)
		assert.Equal(t, "text/plain", obj.ContentType)

		body, err := io.ReadAll(obj.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{
			getObject: func(_ context.Context, _ *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
				return nil, &types.NoSuchKey{}
			},
		})

		_, err := store.Get(context.Background(), "gone.txt")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestS3Store_GetRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, &mockS3Client{
		getObject: func(_ context.Context, params *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
			assert.Equal(t, "bytes=10-19", aws.ToString(params.Range))
			return &s3aws.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader("0123456789")),
				ContentLength: aws.Int64(10),
				ContentType:   aws.String("video/mp4"),
			}, nil
		},
	})

	obj, err := store.GetRange(context.Background(), "clip.mp4", 10, 19)
	require.NoError(t, err)
	defer obj.Body.Close()

	assert.Equal(t, int64(10), obj.Size)
	assert.Equal(t, "video/mp4", obj.ContentType)
}

func TestS3Store_Delete(t *testing.T) {
	t.Parallel()

	t.Run("head then delete", func(t *testing.T) {
		t.Parallel()

		var headed, deleted bool
		store := newTestStore(t, &mockS3Client{
			headObject: func(_ context.Context, params *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
				headed = true
				assert.Equal(t, "a.png", aws.ToString(params.Key))
				return &s3aws.HeadObjectOutput{}, nil
			},
			deleteObject: func(_ context.Context, params *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
				require.True(t, headed, "delete issued before existence check")
				deleted = true
				assert.Equal(t, "a.png", aws.ToString(params.Key))
				return &s3aws.DeleteObjectOutput{}, nil
			},
		})

		require.NoError(t, store.Delete(context.Background(), "a.png"))
		assert.True(t, deleted)
	})

	t.Run("missing object reports not found", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{
			headObject: func(_ context.Context, _ *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
				return nil, &types.NotFound{}
			},
			deleteObject: func(_ context.Context, _ *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
				t.Fatal("delete should not run for a missing object")
				return nil, nil
			},
		})

		err := store.Delete(context.Background(), "gone.png")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestS3Store_Exists(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{
			headObject: func(_ context.Context, _ *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
				return &s3aws.HeadObjectOutput{}, nil
			},
		})
		assert.True(t, store.Exists(context.Background(), "a.png"))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{
			headObject: func(_ context.Context, _ *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
				return nil, &types.NotFound{}
			},
		})
		assert.False(t, store.Exists(context.Background(), "a.png"))
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, &mockS3Client{})
		assert.False(t, store.Exists(context.Background(), ""))
	})
}

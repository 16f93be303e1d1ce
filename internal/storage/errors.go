package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrInvalidConfig indicates required storage configuration is missing.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrInvalidKey indicates the object key is empty or contains path traversal.
	ErrInvalidKey = errors.New("invalid object key")

	// ErrObjectNotFound indicates no object exists under the requested key.
	ErrObjectNotFound = errors.New("object not found")

	// ErrAccessDenied indicates the credentials lack permission for the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrOperationTimeout indicates the operation exceeded its deadline.
	ErrOperationTimeout = errors.New("operation timed out")

	// ErrOperationCanceled indicates the operation was canceled by the caller.
	ErrOperationCanceled = errors.New("operation canceled")
)

// classifyError converts S3 errors to domain errors so callers can match with
// errors.Is instead of inspecting SDK types.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, operation)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
		default:
			return fmt.Errorf("%s failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Blob is a key-addressed byte store. The guest cart lives here as one
// serialized JSON document per guest; the driver (local dir or S3) is
// chosen from the environment.
type Blob interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

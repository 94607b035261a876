package outbound

import (
	"context"
	"io"
)

// StoragePort defines object storage operations.
type StoragePort interface {
	// Put uploads an object to storage.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Get retrieves an object from storage.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessagePort defines message broker publishing.
type MessagePort interface {
	// Publish publishes a message to a topic, keyed for partitioning.
	Publish(ctx context.Context, topic, key string, message []byte) error
}

package domain

import "context"

// Store is a durable key-value store holding serialized documents.
// Get returns (nil, nil) when the key does not exist.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Repository loads and saves the single persisted document.
type Repository interface {
	Load(ctx context.Context) (*Document, bool)
	Save(ctx context.Context, doc Document) error
	Clear(ctx context.Context) error
}

// Source hands out snapshots of the current document.
type Source interface {
	Snapshot() Document
}

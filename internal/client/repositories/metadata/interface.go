package metadata

import (
	"context"
	"errors"
)

// ErrUnsupportedBackend is returned when asked to open a storage backend
// this package does not implement.
var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// Repository is a flat key/value store. Get returns (nil, nil) for a key
// that is not present; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Transactor is implemented by repositories that can apply a group of
// writes atomically. fn receives a Repository bound to the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

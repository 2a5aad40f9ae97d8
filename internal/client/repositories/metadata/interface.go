// Package metadata is the key/value table backing the persisted session.
package metadata

import (
	"context"
)

// Repository stores string values by key. Get returns common.ErrorNotFound
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}

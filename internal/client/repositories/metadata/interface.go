// Package metadata is the key/value table of the client's local database.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys.
//
// Get reports a missing key with ok == false and a nil error.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

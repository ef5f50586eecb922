// Package storage is the persistence seam: a small key-value contract plus a
// typed layer that knows how the configuration and the history log are encoded.
// The core session and stats logic never touch storage directly.
package storage

import (
	"context"
	"errors"
)

// Well-known keys. The names are inherited from the original tool's storage.
const (
	KeyConfiguration = "iScoutGameSettings"
	KeyHistory       = "gameHistory"
)

// Domain-level errors surfaced by store implementations.
var ErrNotFound = errors.New("not found")

// Store is the minimal get/set contract required by the core.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

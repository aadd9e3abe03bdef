// Package kv is the flat key-value layer everything else is stored in.
//
// A Store gives per-key atomicity and nothing more: there are no multi-key
// transactions and no compare-and-swap. Callers that touch several keys must
// order their writes so that a crash between two of them is recoverable.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Store is a get/put/delete key-value service.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Package cache holds catalog lookups, such as dataset schemas and
// vocabularies, which change rarely and are read on every form load.
package cache

import (
	"context"
	"io"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Cache stores JSON-encodable values by key
type Cache interface {
	io.Closer

	// Get decodes the value for a key into out, and returns false when the
	// key is missing or expired
	Get(ctx context.Context, key string, out any) (bool, error)

	// Set stores a value for a key
	Set(ctx context.Context, key string, value any) error
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Default lifetime of a cached value
	DefaultExpiry = 10 * time.Minute
)

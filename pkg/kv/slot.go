// Package kv provides the single-slot key-value medium the record store
// persists into: one opaque payload under one static key.
package kv

import "context"

// Slot is a persistence surface holding exactly one payload.
type Slot interface {
	// Load returns the stored payload. The boolean reports whether the slot
	// currently holds a value; an empty slot is not an error.
	Load(ctx context.Context) ([]byte, bool, error)

	// Store overwrites the slot with the given payload.
	Store(ctx context.Context, payload []byte) error
}

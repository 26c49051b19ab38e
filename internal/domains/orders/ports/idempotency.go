package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload or store.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a client-supplied key with the order it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	StoreID     string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so order submissions can be retried safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save claims the key for record. When the key is already held for the same request hash and store,
	// the stored record is returned without error; its OrderID names the order of the first attempt, which
	// differs from record.OrderID on every retry. A different hash or store yields ErrIdempotencyConflict
	// together with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

package order

import (
	"context"

	"rozo-books/internal/domain"
)

// Repository is the durable one-shot store for the session's pending order.
// One logical key per session: Put overwrites, Get reads without consuming,
// Delete completes the read-once handoff.
type Repository interface {
	Put(ctx context.Context, sessionID string, order domain.PendingOrder) error
	Get(ctx context.Context, sessionID string) (*domain.PendingOrder, error)
	Delete(ctx context.Context, sessionID string) error
}

package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"rozo-books/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Put(ctx context.Context, sessionID string, order domain.PendingOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}
	const q = `
INSERT INTO pending_orders (session_id, payload)
VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE SET
    payload = EXCLUDED.payload,
    created_at = now()
`
	if _, err := r.pool.Exec(ctx, q, sessionID, payload); err != nil {
		r.logger.Printf("order repo: put session=%s error=%v", sessionID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, sessionID string) (*domain.PendingOrder, error) {
	const q = `
SELECT payload
FROM pending_orders
WHERE session_id = $1
`
	var payload []byte
	if err := r.pool.QueryRow(ctx, q, sessionID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get session=%s error=%v", sessionID, err)
		return nil, err
	}
	var order domain.PendingOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("unmarshal pending order: %w", err)
	}
	return &order, nil
}

func (r *postgresRepo) Delete(ctx context.Context, sessionID string) error {
	const q = `
DELETE FROM pending_orders
WHERE session_id = $1
`
	if _, err := r.pool.Exec(ctx, q, sessionID); err != nil {
		r.logger.Printf("order repo: delete session=%s error=%v", sessionID, err)
		return err
	}
	return nil
}

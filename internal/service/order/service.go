package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"
)

type orderRepo interface {
	Put(ctx context.Context, sessionID string, order domain.PendingOrder) error
	Get(ctx context.Context, sessionID string) (*domain.PendingOrder, error)
	Delete(ctx context.Context, sessionID string) error
}

// Service finalizes completed payments into pending orders and hands each one
// to the confirmation view exactly once.
type Service struct {
	carts  *cart.Store
	orders orderRepo
	logger *log.Logger
	now    func() time.Time
}

func New(carts *cart.Store, orders orderRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, orders: orders, logger: logger, now: time.Now}
}

// Finalize snapshots the session's cart and contact info into a durable
// PendingOrder, then clears the cart. The two steps are one logical unit: if
// the write fails the cart is left untouched and the error is retryable.
// Address and phone are kept only when the cart actually holds physical books.
func (s *Service) Finalize(ctx context.Context, sessionID string, contact domain.ContactInfo, txRef *string) (*domain.PendingOrder, error) {
	view := s.carts.Get(sessionID)
	if len(view.Lines) == 0 {
		return nil, fmt.Errorf("finalize order: cart is empty")
	}

	order := domain.PendingOrder{
		Lines:         view.Lines,
		Email:         strings.TrimSpace(contact.Email),
		TotalPrice:    view.TotalPrice,
		TxRef:         txRef,
		PaymentMethod: "crypto",
		CreatedAt:     s.now().UTC(),
	}
	if view.HasPhysical {
		order.Address = strings.TrimSpace(contact.Address)
		order.Phone = strings.TrimSpace(contact.Phone)
	}

	if err := s.orders.Put(ctx, sessionID, order); err != nil {
		return nil, fmt.Errorf("persist pending order: %w", err)
	}
	s.carts.Clear(sessionID)
	s.logger.Printf("order service: session=%s finalized items=%d total=%s", sessionID, len(order.Lines), order.TotalPrice)
	return &order, nil
}

// Consume reads the session's pending order and deletes it, so a reload or
// back-navigation cannot redisplay it. Absence surfaces as domain.ErrNotFound;
// the caller treats that as stale navigation, not a failure. The session cart
// is cleared as well, covering a stale in-memory cart that survived
// finalization.
func (s *Service) Consume(ctx context.Context, sessionID string) (*domain.PendingOrder, error) {
	order, err := s.orders.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Delete(ctx, sessionID); err != nil {
		// Leave the record in place; better to let the client retry than
		// to show an order that can be replayed.
		return nil, fmt.Errorf("delete pending order: %w", err)
	}
	s.carts.Clear(sessionID)
	s.logger.Printf("order service: session=%s order consumed", sessionID)
	return order, nil
}

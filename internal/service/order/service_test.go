package order

import (
	"context"
	"errors"
	"testing"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"

	"github.com/shopspring/decimal"
)

type stubRepo struct {
	orders    map[string]domain.PendingOrder
	putErr    error
	deleteErr error
	putCalls  int
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: make(map[string]domain.PendingOrder)}
}

func (s *stubRepo) Put(_ context.Context, sessionID string, order domain.PendingOrder) error {
	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}
	s.orders[sessionID] = order
	return nil
}

func (s *stubRepo) Get(_ context.Context, sessionID string) (*domain.PendingOrder, error) {
	o, ok := s.orders[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (s *stubRepo) Delete(_ context.Context, sessionID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.orders, sessionID)
	return nil
}

func physicalBook(id string) domain.Book {
	return domain.Book{
		ID:            id,
		Title:         "Book " + id,
		PhysicalPrice: decimal.RequireFromString("19.99"),
		EbookPrice:    decimal.RequireFromString("9.99"),
	}
}

func TestFinalizeSnapshotsAndClears(t *testing.T) {
	carts := cart.NewStore()
	carts.AddItem("s1", physicalBook("b1"), domain.FormatPhysical)
	carts.AddItem("s1", physicalBook("b1"), domain.FormatPhysical)
	repo := newStubRepo()
	svc := New(carts, repo, nil)

	tx := "0xtx"
	order, err := svc.Finalize(context.Background(), "s1", domain.ContactInfo{
		Email:   " a@b.com ",
		Address: "1 Main St",
		Phone:   "+1 555 0100",
	}, &tx)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if len(order.Lines) != 1 || order.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot lines: %+v", order.Lines)
	}
	if !order.TotalPrice.Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("expected total 39.98, got %s", order.TotalPrice)
	}
	if order.Email != "a@b.com" || order.Address != "1 Main St" || order.Phone != "+1 555 0100" {
		t.Fatalf("unexpected contact snapshot: %+v", order)
	}
	if order.TxRef == nil || *order.TxRef != "0xtx" {
		t.Fatalf("expected tx ref, got %v", order.TxRef)
	}
	if len(carts.Get("s1").Lines) != 0 {
		t.Fatal("expected cart cleared after finalize")
	}
	if _, ok := repo.orders["s1"]; !ok {
		t.Fatal("expected pending order persisted")
	}
}

func TestFinalizeDropsAddressForEbookOnlyCart(t *testing.T) {
	carts := cart.NewStore()
	carts.AddItem("s1", physicalBook("b1"), domain.FormatEbook)
	svc := New(carts, newStubRepo(), nil)

	order, err := svc.Finalize(context.Background(), "s1", domain.ContactInfo{
		Email:   "a@b.com",
		Address: "1 Main St",
		Phone:   "+1 555 0100",
	}, nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if order.Address != "" || order.Phone != "" {
		t.Fatalf("ebook-only order must not keep address/phone, got %+v", order)
	}
}

func TestFinalizePersistenceFailureKeepsCart(t *testing.T) {
	carts := cart.NewStore()
	carts.AddItem("s1", physicalBook("b1"), domain.FormatPhysical)
	repo := newStubRepo()
	repo.putErr = errors.New("db down")
	svc := New(carts, repo, nil)

	_, err := svc.Finalize(context.Background(), "s1", domain.ContactInfo{
		Email: "a@b.com", Address: "1 Main St", Phone: "+1 555 0100",
	}, nil)
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if len(carts.Get("s1").Lines) != 1 {
		t.Fatal("persistence failure must leave the cart intact")
	}
}

func TestFinalizeEmptyCartFails(t *testing.T) {
	svc := New(cart.NewStore(), newStubRepo(), nil)

	if _, err := svc.Finalize(context.Background(), "s1", domain.ContactInfo{Email: "a@b.com"}, nil); err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestConsumeIsOneShot(t *testing.T) {
	carts := cart.NewStore()
	carts.AddItem("s1", physicalBook("b1"), domain.FormatEbook)
	repo := newStubRepo()
	svc := New(carts, repo, nil)

	if _, err := svc.Finalize(context.Background(), "s1", domain.ContactInfo{Email: "a@b.com"}, nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	order, err := svc.Consume(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if order.Email != "a@b.com" {
		t.Fatalf("unexpected order: %+v", order)
	}

	// The record is gone; a reload behaves as "no order".
	if _, err := svc.Consume(context.Background(), "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second consume, got %v", err)
	}
}

func TestConsumeMissingOrder(t *testing.T) {
	svc := New(cart.NewStore(), newStubRepo(), nil)

	if _, err := svc.Consume(context.Background(), "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConsumeDefensivelyClearsCart(t *testing.T) {
	carts := cart.NewStore()
	repo := newStubRepo()
	repo.orders["s1"] = domain.PendingOrder{Email: "a@b.com"}
	// A stale in-memory cart survived even though the order was finalized.
	carts.AddItem("s1", physicalBook("b1"), domain.FormatEbook)
	svc := New(carts, repo, nil)

	if _, err := svc.Consume(context.Background(), "s1"); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if len(carts.Get("s1").Lines) != 0 {
		t.Fatal("expected cart cleared on consume")
	}
}

func TestConsumeDeleteFailureKeepsRecord(t *testing.T) {
	repo := newStubRepo()
	repo.orders["s1"] = domain.PendingOrder{Email: "a@b.com"}
	repo.deleteErr = errors.New("db down")
	svc := New(cart.NewStore(), repo, nil)

	if _, err := svc.Consume(context.Background(), "s1"); err == nil {
		t.Fatal("expected delete failure to surface")
	}
	if _, ok := repo.orders["s1"]; !ok {
		t.Fatal("record must survive a failed delete")
	}
}

package cart

import (
	"sync"

	"rozo-books/internal/domain"

	"github.com/shopspring/decimal"
)

// Store owns the session carts. Carts live only in memory for the duration of
// the process; a session that never added anything holds no entry. Every
// mutation runs under the store lock so derived totals are never read torn.
type Store struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*domain.Cart)}
}

func (s *Store) cart(sessionID string) *domain.Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &domain.Cart{}
		s.carts[sessionID] = c
	}
	return c
}

// View is a consistent read of one session's cart.
type View struct {
	Lines       []domain.CartLine
	TotalPrice  decimal.Decimal
	TotalItems  int
	HasPhysical bool
}

// Get returns a snapshot view of the session's cart.
func (s *Store) Get(sessionID string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(sessionID)
}

func (s *Store) viewLocked(sessionID string) View {
	c := s.cart(sessionID)
	return View{
		Lines:       c.Snapshot(),
		TotalPrice:  c.TotalPrice(),
		TotalItems:  c.TotalItems(),
		HasPhysical: c.HasPhysical(),
	}
}

// AddItem merges one unit of the book in the given format into the session's
// cart and returns the resulting view. It always succeeds.
func (s *Store) AddItem(sessionID string, book domain.Book, format domain.Format) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).AddLine(book, format)
	return s.viewLocked(sessionID)
}

// UpdateQuantity sets a line's quantity absolutely; zero or less removes the
// line, an unknown line is a no-op.
func (s *Store) UpdateQuantity(sessionID, productID string, format domain.Format, quantity int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).SetQuantity(productID, format, quantity)
	return s.viewLocked(sessionID)
}

// RemoveItem deletes the matching line if present.
func (s *Store) RemoveItem(sessionID, productID string, format domain.Format) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).RemoveLine(productID, format)
	return s.viewLocked(sessionID)
}

// Clear empties the session's cart.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).Clear()
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"
	"rozo-books/internal/service/checkout"

	"github.com/shopspring/decimal"
)

// State of one checkout attempt. Bounce is not a resting state: a bounced
// attempt is immediately reset to StateIdle so the user can retry.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingPayment State = "awaiting_payment"
	StateCompleted       State = "completed"
)

var (
	// ErrNoAttempt means an event arrived for a session that never armed an intent.
	ErrNoAttempt = errors.New("no payment attempt for session")
	// ErrNotPayable means the pay action is currently disabled for the session.
	ErrNotPayable = errors.New("checkout is not payable")
	// ErrInvalidTransition means the event does not apply to the current state.
	ErrInvalidTransition = errors.New("payment event does not match current state")
)

// Finalizer turns a completed payment into a durable pending order.
type Finalizer interface {
	Finalize(ctx context.Context, sessionID string, contact domain.ContactInfo, txRef *string) (*domain.PendingOrder, error)
}

// Options carries the settlement parameters every intent is armed with.
type Options struct {
	MerchantWallet string
	ChainID        int64
	TokenAddress   string
}

type attempt struct {
	state   State
	intent  Intent
	contact domain.ContactInfo
	txRef   *string
	order   *domain.PendingOrder
}

// Bridge adapts the external payment widget's callback events into local state
// transitions, one attempt per session. Completion hands off to the Finalizer
// under the bridge lock, so no further event for the session is processed
// until finalization settles.
type Bridge struct {
	mu        sync.Mutex
	attempts  map[string]*attempt
	carts     *cart.Store
	finalizer Finalizer
	opts      Options
	logger    *log.Logger
}

func NewBridge(carts *cart.Store, finalizer Finalizer, opts Options, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Bridge{
		attempts:  make(map[string]*attempt),
		carts:     carts,
		finalizer: finalizer,
		opts:      opts,
		logger:    logger,
	}
}

// Arm prepares (or re-prepares) a payment intent for the session. The pay
// action is refused unless the contact form validates against the cart, the
// destination address is well formed, the amount is strictly positive, and no
// payment is currently in flight. Arming with a changed amount or destination
// discards the previous attempt, so a stale intent bound to an old total is
// never payable.
func (b *Bridge) Arm(sessionID string, contact domain.ContactInfo) (Intent, error) {
	view := b.carts.Get(sessionID)
	if verdict := checkout.Validate(view.HasPhysical, contact); !verdict.Valid {
		return Intent{}, fmt.Errorf("%w: missing %v", ErrNotPayable, verdict.MissingFields)
	}
	if !isHexAddress(b.opts.MerchantWallet) {
		return Intent{}, fmt.Errorf("%w: malformed destination address", ErrNotPayable)
	}
	if !view.TotalPrice.GreaterThan(decimal.Zero) {
		return Intent{}, fmt.Errorf("%w: amount must be positive", ErrNotPayable)
	}

	intent := Intent{
		ToAddress:    b.opts.MerchantWallet,
		Amount:       view.TotalPrice,
		TokenAddress: b.opts.TokenAddress,
		ChainID:      b.opts.ChainID,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.attempts[sessionID]
	switch {
	case !ok, a.state == StateCompleted:
		// First attempt for the session, or a fresh checkout after a
		// finished one.
		b.attempts[sessionID] = &attempt{state: StateIdle, intent: intent, contact: contact}
	case !a.intent.Matches(intent):
		if a.state == StateAwaitingPayment {
			b.logger.Printf("payment bridge: session=%s reset while awaiting payment", sessionID)
		}
		b.attempts[sessionID] = &attempt{state: StateIdle, intent: intent, contact: contact}
	case a.state == StateAwaitingPayment:
		return Intent{}, fmt.Errorf("%w: payment already in progress", ErrNotPayable)
	default:
		// Same intent, still idle: keep the attempt, refresh the contact
		// info so finalization snapshots the latest form values.
		a.contact = contact
	}
	return intent, nil
}

// HandleStarted records the widget's payment-started event. The widget owns
// the payment flow from here; the bridge only tracks that it is in flight.
func (b *Bridge) HandleStarted(sessionID string, txRef *string) (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.attempts[sessionID]
	if !ok {
		return "", ErrNoAttempt
	}
	if a.state != StateIdle {
		return a.state, fmt.Errorf("%w: started in state %s", ErrInvalidTransition, a.state)
	}
	a.state = StateAwaitingPayment
	a.txRef = txRef
	b.logger.Printf("payment bridge: session=%s awaiting payment", sessionID)
	return a.state, nil
}

// HandleCompleted drives AwaitingPayment to Completed and finalizes the order
// synchronously. It is idempotent: a duplicate completion for an already
// completed attempt returns the order that was finalized the first time,
// without writing a second record or clearing the cart again. If finalization
// fails the attempt stays in AwaitingPayment so a retried completion event can
// drive it again; a paid cart is never silently dropped.
func (b *Bridge) HandleCompleted(ctx context.Context, sessionID, txRef string) (*domain.PendingOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.attempts[sessionID]
	if !ok {
		return nil, ErrNoAttempt
	}
	switch a.state {
	case StateCompleted:
		b.logger.Printf("payment bridge: session=%s duplicate completion ignored", sessionID)
		return a.order, nil
	case StateAwaitingPayment:
		order, err := b.finalizer.Finalize(ctx, sessionID, a.contact, &txRef)
		if err != nil {
			b.logger.Printf("payment bridge: session=%s finalize failed: %v", sessionID, err)
			return nil, err
		}
		a.state = StateCompleted
		a.txRef = &txRef
		a.order = order
		b.logger.Printf("payment bridge: session=%s completed tx=%s", sessionID, txRef)
		return order, nil
	default:
		return nil, fmt.Errorf("%w: completed in state %s", ErrInvalidTransition, a.state)
	}
}

// HandleBounced resets a bounced attempt back to Idle. Cart and contact form
// are left intact, so the user can retry immediately.
func (b *Bridge) HandleBounced(sessionID, txRef string) (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.attempts[sessionID]
	if !ok {
		return "", ErrNoAttempt
	}
	if a.state != StateAwaitingPayment {
		return a.state, fmt.Errorf("%w: bounced in state %s", ErrInvalidTransition, a.state)
	}
	a.state = StateIdle
	a.txRef = nil
	b.logger.Printf("payment bridge: session=%s bounced tx=%s, reset to idle", sessionID, txRef)
	return a.state, nil
}

// StateOf reports the session's current attempt state. Sessions without an
// attempt are Idle.
func (b *Bridge) StateOf(sessionID string) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.attempts[sessionID]; ok {
		return a.state
	}
	return StateIdle
}

// isHexAddress checks for a 20-byte 0x-prefixed hex address.
func isHexAddress(s string) bool {
	if len(s) != 42 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

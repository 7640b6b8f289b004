package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactInfo carries the checkout contact form. Email is always required;
// Address and Phone only when the cart holds a physical book.
type ContactInfo struct {
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// PendingOrder is the one-shot handoff record written when a payment completes
// and consumed exactly once by the confirmation view.
type PendingOrder struct {
	Lines         []CartLine      `json:"items"`
	Email         string          `json:"email"`
	Address       string          `json:"address,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TxRef         *string         `json:"txHash,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

package httpserver

import (
	"errors"
	"net/http"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"
	"rozo-books/internal/service/checkout"
	"rozo-books/internal/service/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type contactRequest struct {
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (r contactRequest) contactInfo() domain.ContactInfo {
	return domain.ContactInfo{Email: r.Email, Address: r.Address, Phone: r.Phone}
}

type validateResponse struct {
	checkout.Verdict
	HasPhysicalItems bool            `json:"hasPhysicalItems"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
}

// validateCheckoutHandler re-runs the validator against the live cart, so the
// required-field set tracks the cart's current format mix.
func validateCheckoutHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact payload"})
			return
		}
		view := carts.Get(sessionID(c))
		c.JSON(http.StatusOK, validateResponse{
			Verdict:          checkout.Validate(view.HasPhysical, req.contactInfo()),
			HasPhysicalItems: view.HasPhysical,
			TotalPrice:       view.TotalPrice,
		})
	}
}

func paymentIntentHandler(bridge *payment.Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact payload"})
			return
		}
		intent, err := bridge.Arm(sessionID(c), req.contactInfo())
		if err != nil {
			if errors.Is(err, payment.ErrNotPayable) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to arm payment"})
			return
		}
		qr, err := intent.QRCodePNG()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode payment qr"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"intent": intent,
			"payUri": intent.TransferURI(),
			"qrPng":  qr,
			"state":  bridge.StateOf(sessionID(c)),
		})
	}
}

type paymentEventRequest struct {
	Type   string `json:"type" binding:"required"`
	TxHash string `json:"txHash"`
}

// paymentEventHandler receives the payment widget's lifecycle callbacks and
// drives the bridge state machine.
func paymentEventHandler(bridge *payment.Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event type required"})
			return
		}
		session := sessionID(c)

		switch req.Type {
		case "started":
			var txRef *string
			if req.TxHash != "" {
				txRef = &req.TxHash
			}
			state, err := bridge.HandleStarted(session, txRef)
			if err != nil {
				bridgeError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"state": state})

		case "completed":
			if req.TxHash == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "txHash required for completion"})
				return
			}
			order, err := bridge.HandleCompleted(c.Request.Context(), session, req.TxHash)
			if err != nil {
				bridgeError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"state": payment.StateCompleted, "order": order, "redirect": "/order-confirmation"})

		case "bounced":
			state, err := bridge.HandleBounced(session, req.TxHash)
			if err != nil {
				bridgeError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"state": state, "retryable": true, "error": "payment was bounced, please try again"})

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		}
	}
}

// bridgeError maps bridge failures onto the HTTP surface: protocol violations
// are conflicts, a failed finalization is a retryable upstream error that must
// not be mistaken for success.
func bridgeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrNoAttempt), errors.Is(err, payment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "order finalization failed, retry the payment confirmation", "retryable": true})
	}
}

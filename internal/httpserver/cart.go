package httpserver

import (
	"errors"
	"net/http"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cartResponse struct {
	Items            []domain.CartLine `json:"items"`
	TotalItems       int               `json:"totalItems"`
	TotalPrice       decimal.Decimal   `json:"totalPrice"`
	HasPhysicalItems bool              `json:"hasPhysicalItems"`
}

func toCartResponse(view cart.View) cartResponse {
	items := view.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{
		Items:            items,
		TotalItems:       view.TotalItems,
		TotalPrice:       view.TotalPrice,
		HasPhysicalItems: view.HasPhysical,
	}
}

func getCartHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toCartResponse(carts.Get(sessionID(c))))
	}
}

type addItemRequest struct {
	BookID string `json:"bookId" binding:"required"`
	Format string `json:"format" binding:"required"`
}

func addCartItemHandler(carts *cart.Store, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bookId and format required"})
			return
		}
		format, ok := domain.ParseFormat(req.Format)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be physical or ebook"})
			return
		}
		book, err := catalog.Get(c.Request.Context(), req.BookID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
			return
		}
		view := carts.AddItem(sessionID(c), *book, format)
		c.JSON(http.StatusOK, toCartResponse(view))
	}
}

type updateItemRequest struct {
	BookID   string `json:"bookId" binding:"required"`
	Format   string `json:"format" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

func updateCartItemHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bookId, format and quantity required"})
			return
		}
		format, ok := domain.ParseFormat(req.Format)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be physical or ebook"})
			return
		}
		view := carts.UpdateQuantity(sessionID(c), req.BookID, format, *req.Quantity)
		c.JSON(http.StatusOK, toCartResponse(view))
	}
}

func removeCartItemHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := domain.ParseFormat(c.Param("format"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be physical or ebook"})
			return
		}
		view := carts.RemoveItem(sessionID(c), c.Param("id"), format)
		c.JSON(http.StatusOK, toCartResponse(view))
	}
}

func clearCartHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		carts.Clear(sessionID(c))
		c.JSON(http.StatusOK, toCartResponse(carts.Get(sessionID(c))))
	}
}

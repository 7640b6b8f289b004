package httpserver

import (
	"errors"
	"net/http"

	"rozo-books/internal/domain"

	"github.com/gin-gonic/gin"
)

// currentOrderHandler hands the pending order to the confirmation view exactly
// once. Entering with no stored order is stale navigation, answered with a
// redirect to the catalog root rather than an order summary.
func currentOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.Consume(c.Request.Context(), sessionID(c))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no pending order", "redirect": "/"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

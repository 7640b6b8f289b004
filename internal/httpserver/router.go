package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"rozo-books/internal/domain"
	"rozo-books/internal/service/cart"
	"rozo-books/internal/service/payment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	Get(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Categories(ctx context.Context) ([]string, error)
}

type orderService interface {
	Consume(ctx context.Context, sessionID string) (*domain.PendingOrder, error)
}

// Deps carries the services the router dispatches to.
type Deps struct {
	Catalog        catalogService
	Carts          *cart.Store
	Bridge         *payment.Bridge
	Orders         orderService
	AllowedOrigins []string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/books", listBooksHandler(deps.Catalog))
	router.GET("/books/:id", getBookHandler(deps.Catalog))
	router.GET("/categories", listCategoriesHandler(deps.Catalog))

	session := router.Group("/", sessionMiddleware())
	{
		session.GET("/cart", getCartHandler(deps.Carts))
		session.POST("/cart/items", addCartItemHandler(deps.Carts, deps.Catalog))
		session.PATCH("/cart/items", updateCartItemHandler(deps.Carts))
		session.DELETE("/cart/items/:id/:format", removeCartItemHandler(deps.Carts))
		session.DELETE("/cart", clearCartHandler(deps.Carts))

		session.POST("/checkout/validate", validateCheckoutHandler(deps.Carts))
		session.POST("/checkout/payment-intent", paymentIntentHandler(deps.Bridge))
		session.POST("/checkout/payment-events", paymentEventHandler(deps.Bridge))

		session.GET("/orders/current", currentOrderHandler(deps.Orders))
	}

	return router
}

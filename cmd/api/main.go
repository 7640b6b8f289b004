package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rozo-books/internal/config"
	"rozo-books/internal/db"
	"rozo-books/internal/httpserver"
	catalogrepo "rozo-books/internal/repository/catalog"
	orderrepo "rozo-books/internal/repository/order"
	cartsvc "rozo-books/internal/service/cart"
	catalogsvc "rozo-books/internal/service/catalog"
	ordersvc "rozo-books/internal/service/order"
	paymentsvc "rozo-books/internal/service/payment"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(catalogRepo)
	cartStore := cartsvc.NewStore()
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(cartStore, orderRepo, logger)
	bridge := paymentsvc.NewBridge(cartStore, orderService, paymentsvc.Options{
		MerchantWallet: cfg.MerchantWallet,
		ChainID:        cfg.ChainID,
		TokenAddress:   cfg.TokenAddress,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:        catalogService,
		Carts:          cartStore,
		Bridge:         bridge,
		Orders:         orderService,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

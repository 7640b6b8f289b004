package catalog

import (
	"context"
	"errors"
	"os"
	"testing"

	"rozo-books/internal/db"
	"rozo-books/internal/domain"
	"rozo-books/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	book := domain.Book{
		ID:            "b1",
		Title:         "The Bitcoin Standard",
		Author:        "Saifedean Ammous",
		Category:      "Economics",
		PhysicalPrice: decimal.RequireFromString("19.99"),
		EbookPrice:    decimal.RequireFromString("9.99"),
	}
	if err := repo.Upsert(ctx, book); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != book.Title || !got.PhysicalPrice.Equal(book.PhysicalPrice) || !got.EbookPrice.Equal(book.EbookPrice) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Upsert updates in place.
	book.Title = "The Bitcoin Standard (2nd ed)"
	if err := repo.Upsert(ctx, book); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	got, err = repo.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Title != "The Bitcoin Standard (2nd ed)" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_SearchAndCategories(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	seedBooks := []domain.Book{
		{ID: "b1", Title: "The Bitcoin Standard", Author: "Saifedean Ammous", Category: "Economics",
			PhysicalPrice: decimal.New(1999, -2), EbookPrice: decimal.New(999, -2)},
		{ID: "b2", Title: "Snow Crash", Author: "Neal Stephenson", Category: "Science Fiction",
			PhysicalPrice: decimal.New(1499, -2), EbookPrice: decimal.New(799, -2)},
	}
	for _, b := range seedBooks {
		if err := repo.Upsert(ctx, b); err != nil {
			t.Fatalf("Upsert %s: %v", b.ID, err)
		}
	}

	// Case-insensitive substring over title and author.
	found, err := repo.Search(ctx, "bitcoin")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "b1" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	found, err = repo.Search(ctx, "stephenson")
	if err != nil {
		t.Fatalf("Search by author: %v", err)
	}
	if len(found) != 1 || found[0].ID != "b2" {
		t.Fatalf("unexpected author search result: %+v", found)
	}

	cats, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Economics" || cats[1] != "Science Fiction" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE pending_orders, books`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"rozo-books/internal/domain"
	catalogrepo "rozo-books/internal/repository/catalog"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed books.json
var booksJSON []byte

// Apply inserts the demo book catalog. It is idempotent via upserts.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	var books []domain.Book
	if err := json.Unmarshal(booksJSON, &books); err != nil {
		return fmt.Errorf("parse embedded catalog: %w", err)
	}

	repo := catalogrepo.NewPostgres(pool, nil)
	for _, b := range books {
		if err := repo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("upsert book %s: %w", b.ID, err)
		}
	}
	return nil
}

package catalog

import (
	"context"

	"rozo-books/internal/domain"
)

// Repository is the read side of the book catalog. The storefront never
// mutates it; Upsert exists for the seeder and the CSV importer.
type Repository interface {
	List(ctx context.Context) ([]domain.Book, error)
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Categories(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, book domain.Book) error
}

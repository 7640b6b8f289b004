package catalog

import (
	"context"
	"strings"

	"rozo-books/internal/domain"
	catalogrepo "rozo-books/internal/repository/catalog"
)

type Service struct {
	repo catalogrepo.Repository
}

func New(repo catalogrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Search finds books whose title or author contains the query, case
// insensitively. A blank query lists the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

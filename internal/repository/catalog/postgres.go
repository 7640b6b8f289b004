package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"rozo-books/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, thumbnail, category, description, physical_price, ebook_price`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
ORDER BY title
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1
`
	var b domain.Book
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Thumbnail, &b.Category, &b.Description,
		&b.PhysicalPrice, &b.EbookPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) Search(ctx context.Context, query string) ([]domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'
ORDER BY title
`
	rows, err := r.pool.Query(ctx, q, query)
	if err != nil {
		r.logger.Printf("catalog repo: search q=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT category
FROM books
WHERE category <> ''
ORDER BY category
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: categories error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, book domain.Book) error {
	const q = `
INSERT INTO books (id, title, author, thumbnail, category, description, physical_price, ebook_price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    author = EXCLUDED.author,
    thumbnail = EXCLUDED.thumbnail,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    physical_price = EXCLUDED.physical_price,
    ebook_price = EXCLUDED.ebook_price
`
	_, err := r.pool.Exec(ctx, q,
		book.ID, book.Title, book.Author, book.Thumbnail, book.Category,
		book.Description, book.PhysicalPrice, book.EbookPrice,
	)
	if err != nil {
		r.logger.Printf("catalog repo: upsert id=%s error=%v", book.ID, err)
	}
	return err
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var result []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Thumbnail, &b.Category, &b.Description,
			&b.PhysicalPrice, &b.EbookPrice,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

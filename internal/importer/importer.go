package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"rozo-books/internal/domain"

	"github.com/shopspring/decimal"
)

type BookWriter interface {
	Upsert(ctx context.Context, book domain.Book) error
}

// CSVImporter reads a catalog CSV export and inserts/updates books.
type CSVImporter struct {
	reader *csv.Reader
	repo   BookWriter
}

func NewCSVImporter(r io.Reader, repo BookWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, repo: repo}
}

// Run parses CSV rows and upserts one book per row. Rows without an id are
// skipped. It returns the number of books imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		book, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if book == nil {
			continue
		}
		if err := i.repo.Upsert(ctx, *book); err != nil {
			return imported, fmt.Errorf("upsert book %s: %w", book.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(record []string, index map[string]int) (*domain.Book, error) {
	id := field(record, index, "id")
	if id == "" {
		return nil, nil
	}

	physical, err := decimal.NewFromString(field(record, index, "physicalprice"))
	if err != nil {
		return nil, fmt.Errorf("book %s: bad physical price: %w", id, err)
	}
	ebook, err := decimal.NewFromString(field(record, index, "ebookprice"))
	if err != nil {
		return nil, fmt.Errorf("book %s: bad ebook price: %w", id, err)
	}

	return &domain.Book{
		ID:            id,
		Title:         field(record, index, "title"),
		Author:        field(record, index, "author"),
		Thumbnail:     field(record, index, "thumbnail"),
		Category:      field(record, index, "category"),
		Description:   field(record, index, "description"),
		PhysicalPrice: physical,
		EbookPrice:    ebook,
	}, nil
}

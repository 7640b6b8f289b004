package importer

import (
	"context"
	"strings"
	"testing"

	"rozo-books/internal/domain"

	"github.com/shopspring/decimal"
)

type memoryWriter struct {
	books map[string]domain.Book
	err   error
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{books: make(map[string]domain.Book)}
}

func (m *memoryWriter) Upsert(_ context.Context, book domain.Book) error {
	if m.err != nil {
		return m.err
	}
	m.books[book.ID] = book
	return nil
}

const sampleCSV = `id,title,author,thumbnail,category,description,physicalPrice,ebookPrice
b1,The Bitcoin Standard,Saifedean Ammous,/covers/b1.jpg,Economics,Sound money,19.99,9.99
b2,Snow Crash,Neal Stephenson,/covers/b2.jpg,Science Fiction,Cyberpunk classic,14.99,7.99
,skipped row without id,,,,,1.00,1.00
`

func TestCSVImporterRun(t *testing.T) {
	writer := newMemoryWriter()
	imp := NewCSVImporter(strings.NewReader(sampleCSV), writer)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported, got %d", count)
	}

	b1, ok := writer.books["b1"]
	if !ok {
		t.Fatal("expected b1 imported")
	}
	if b1.Title != "The Bitcoin Standard" || b1.Category != "Economics" {
		t.Fatalf("unexpected book: %+v", b1)
	}
	if !b1.PhysicalPrice.Equal(decimal.RequireFromString("19.99")) || !b1.EbookPrice.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected prices: %+v", b1)
	}
}

func TestCSVImporterBadPrice(t *testing.T) {
	const bad = `id,title,author,physicalPrice,ebookPrice
b1,Title,Author,not-a-price,9.99
`
	imp := NewCSVImporter(strings.NewReader(bad), newMemoryWriter())
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected price parse error")
	}
}

func TestCSVImporterHeaderCaseInsensitive(t *testing.T) {
	const upper = `ID,Title,Author,PhysicalPrice,EbookPrice
b1,Title,Author,19.99,9.99
`
	writer := newMemoryWriter()
	imp := NewCSVImporter(strings.NewReader(upper), writer)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported, got %d", count)
	}
}

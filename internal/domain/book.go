package domain

import "github.com/shopspring/decimal"

// Format is the delivery channel of a book. Each format carries its own price.
type Format string

const (
	FormatPhysical Format = "physical"
	FormatEbook    Format = "ebook"
)

// ParseFormat validates a raw format string from a request.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case FormatPhysical, FormatEbook:
		return Format(raw), true
	default:
		return "", false
	}
}

type Book struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Thumbnail     string          `json:"thumbnail"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	PhysicalPrice decimal.Decimal `json:"physicalPrice"`
	EbookPrice    decimal.Decimal `json:"ebookPrice"`
}

// Price returns the unit price for the given format.
func (b Book) Price(format Format) decimal.Decimal {
	if format == FormatEbook {
		return b.EbookPrice
	}
	return b.PhysicalPrice
}

package domain

import "github.com/shopspring/decimal"

// CartLine is one cart entry, keyed by (ProductID, Format). The display fields
// are snapshotted from the catalog at add time.
type CartLine struct {
	ProductID string          `json:"id"`
	Format    Format          `json:"format"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Thumbnail string          `json:"thumbnail"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is UnitPrice times Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of one browsing session in first-add order. At most one
// line exists per (ProductID, Format) pair; every mutation below preserves that.
type Cart struct {
	Lines []CartLine `json:"items"`
}

func (c *Cart) find(productID string, format Format) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Format == format {
			return i
		}
	}
	return -1
}

// AddLine merges one unit of the given book/format into the cart: an existing
// line gains quantity 1, otherwise a new line is appended with quantity 1.
func (c *Cart) AddLine(book Book, format Format) {
	if i := c.find(book.ID, format); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: book.ID,
		Format:    format,
		Title:     book.Title,
		Author:    book.Author,
		Thumbnail: book.Thumbnail,
		UnitPrice: book.Price(format),
		Quantity:  1,
	})
}

// SetQuantity sets a line's quantity to an absolute value. A value of zero or
// less removes the line. Unknown lines are ignored.
func (c *Cart) SetQuantity(productID string, format Format, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(productID, format)
		return
	}
	if i := c.find(productID, format); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

// RemoveLine deletes the matching line if present.
func (c *Cart) RemoveLine(productID string, format Format) {
	if i := c.find(productID, format); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalPrice recomputes the sum of line subtotals from the current lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalItems recomputes the sum of line quantities.
func (c *Cart) TotalItems() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// HasPhysical reports whether any line is a physical book. Checkout requires a
// shipping address and phone exactly when this is true.
func (c *Cart) HasPhysical() bool {
	for _, l := range c.Lines {
		if l.Format == FormatPhysical {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current lines, detached from the cart.
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

// Package cart mutates a session's cart lines. A cart holds at most one line
// per (kind, item id).
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidKind     = errors.New("unknown cart line kind")
)

// AddOrIncrement adds line to the cart, or increases the quantity of the line
// already holding the same item. Quantities are capped at intent.MaxQuantity.
// It returns the updated cart and the index of the affected line.
func AddOrIncrement(lines []models.CartLine, line models.CartLine, now time.Time) ([]models.CartLine, int, error) {
	if !line.Kind.Valid() {
		return lines, -1, ErrInvalidKind
	}
	if line.Quantity < 1 {
		return lines, -1, ErrInvalidQuantity
	}
	for i := range lines {
		if lines[i].SameItem(line) {
			lines[i].Quantity = capQuantity(lines[i].Quantity + line.Quantity)
			lines[i].AddedAt = now
			if line.Kind == models.LineSpecialItem {
				// refresh the snapshot while the special still exists
				lines[i].Name = line.Name
				lines[i].Price = line.Price
			}
			return lines, i, nil
		}
	}
	line.Quantity = capQuantity(line.Quantity)
	line.AddedAt = now
	return append(lines, line), len(lines), nil
}

func capQuantity(n int) int {
	if n > intent.MaxQuantity {
		return intent.MaxQuantity
	}
	return n
}

// SetQuantity replaces the quantity of the line at index
func SetQuantity(lines []models.CartLine, index, qty int, now time.Time) ([]models.CartLine, error) {
	if index < 0 || index >= len(lines) {
		return lines, fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}
	if qty < 1 {
		return lines, ErrInvalidQuantity
	}
	lines[index].Quantity = capQuantity(qty)
	lines[index].AddedAt = now
	return lines, nil
}

// Remove drops the line at index, keeping the order of the rest
func Remove(lines []models.CartLine, index int) ([]models.CartLine, models.CartLine, error) {
	if index < 0 || index >= len(lines) {
		return lines, models.CartLine{}, fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}
	removed := lines[index]
	out := make([]models.CartLine, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	out = append(out, lines[index+1:]...)
	return out, removed, nil
}

// Clear empties the cart
func Clear() []models.CartLine {
	return []models.CartLine{}
}

// Find returns the index of the line holding (kind, itemID), or -1
func Find(lines []models.CartLine, kind models.LineKind, itemID string) int {
	for i, l := range lines {
		if l.Kind == kind && l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Count is the total number of units in the cart
func Count(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Line is a cart line resolved against the current catalog for display and pricing
type Line struct {
	Index     int
	Kind      models.LineKind
	ItemID    string
	Name      string
	UnitPrice float64
	ListPrice float64
	Quantity  int
	Missing   bool
}

// Subtotal is unit price times quantity
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Resolve prices every line from the snapshot. Special lines whose item was
// deleted fall back to their stored snapshot and are flagged Missing.
func Resolve(lines []models.CartLine, snap *models.Snapshot) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		r := Line{Index: i, Kind: l.Kind, ItemID: l.ItemID, Quantity: l.Quantity}
		switch l.Kind {
		case models.LineCatalogItem:
			item, ok := snap.Item(l.ItemID)
			if !ok {
				r.Name = l.ItemID
				r.Missing = true
				break
			}
			r.Name = item.Name
			r.UnitPrice = item.EffectivePrice()
			r.ListPrice = item.Price
		case models.LineSpecialItem:
			item, ok := snap.Special(l.ItemID)
			if !ok {
				r.Name = l.Name
				r.UnitPrice = l.Price
				r.ListPrice = l.Price
				r.Missing = true
				break
			}
			r.Name = item.Name
			r.UnitPrice = item.Price
			r.ListPrice = item.Price
			if item.OriginalPrice > item.Price {
				r.ListPrice = item.OriginalPrice
			}
		default:
			r.Name = l.ItemID
			r.Missing = true
		}
		out = append(out, r)
	}
	return out
}

// Total sums the subtotals of resolved lines
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

package cart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

const (
	// MaxUnitsPerProduct caps a single line's quantity. Increments past the
	// cap clamp silently.
	MaxUnitsPerProduct = 10
	// MaxDistinctLines caps how many persisted entries sanitize considers.
	MaxDistinctLines = 20
)

// Line is one cart entry. Name and price are denormalized from the catalog
// at sanitize time so stale persisted values never leak into totals.
type Line struct {
	ProductID int         `json:"id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"price"`
	Quantity  int         `json:"quantity"`
}

// Subtotal sums unit price times quantity across all lines.
func Subtotal(lines []Line) money.Cents {
	var total money.Cents
	for _, line := range lines {
		total += line.UnitPrice * money.Cents(line.Quantity)
	}
	return total
}

// Signature encodes line identities and quantities as a stable string.
// Two carts with the same signature are interchangeable for quoting.
func Signature(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, strconv.Itoa(line.ProductID)+":"+strconv.Itoa(line.Quantity))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Catalog resolves product ids to the current catalog entry.
type Catalog interface {
	Lookup(id int) (storeapi.Product, bool)
}

// Sanitize keeps only entries that resolve in the catalog and carry an
// integer quantity in [1, MaxUnitsPerProduct], refreshing name and price
// from the catalog. At most MaxDistinctLines entries are considered, and
// duplicate product ids collapse into the first occurrence.
func Sanitize(raw []Line, catalog Catalog) []Line {
	if len(raw) > MaxDistinctLines {
		raw = raw[:MaxDistinctLines]
	}

	seen := make(map[int]bool, len(raw))
	out := make([]Line, 0, len(raw))
	for _, entry := range raw {
		if entry.Quantity < 1 || entry.Quantity > MaxUnitsPerProduct {
			continue
		}
		if seen[entry.ProductID] {
			continue
		}
		product, ok := catalog.Lookup(entry.ProductID)
		if !ok {
			continue
		}
		seen[entry.ProductID] = true
		out = append(out, Line{
			ProductID: entry.ProductID,
			Name:      product.Name,
			UnitPrice: money.NonNegative(product.Price),
			Quantity:  entry.Quantity,
		})
	}
	return out
}

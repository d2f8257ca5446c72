package cart

import (
	"reflect"
	"testing"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type fakeCatalog map[int]storeapi.Product

func (f fakeCatalog) Lookup(id int) (storeapi.Product, bool) {
	product, ok := f[id]
	return product, ok
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		1: {ID: 1, Name: "Escritorio Gamer Pro", Price: 185000},
		2: {ID: 2, Name: "Rack TV Minimalista", Price: 210000},
		3: {ID: 3, Name: "Librero Alto", Price: 95000},
	}
}

func TestSanitizeDropsInvalidEntries(t *testing.T) {
	raw := []Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 1},  // not in catalog
		{ProductID: 2, Quantity: 0},   // below range
		{ProductID: 3, Quantity: 11},  // above range
		{ProductID: 1, Quantity: 1},   // duplicate id
		{ProductID: -4, Quantity: 1},  // negative id
	}

	got := Sanitize(raw, testCatalog())
	if len(got) != 1 {
		t.Fatalf("expected 1 surviving line, got %d: %+v", len(got), got)
	}
	if got[0].ProductID != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected surviving line %+v", got[0])
	}
	if got[0].Name != "Escritorio Gamer Pro" || got[0].UnitPrice != 185000 {
		t.Fatalf("line should be rehydrated from the catalog, got %+v", got[0])
	}
}

func TestSanitizeRefreshesStalePrices(t *testing.T) {
	raw := []Line{{ProductID: 1, Name: "viejo", UnitPrice: 1, Quantity: 1}}
	got := Sanitize(raw, testCatalog())
	if got[0].UnitPrice != 185000 {
		t.Fatalf("price should come from the catalog, got %d", got[0].UnitPrice)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	catalog := testCatalog()
	inputs := [][]Line{
		nil,
		{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 10}},
		{{ProductID: 99, Quantity: 5}},
		{{ProductID: 2, Quantity: -1}, {ProductID: 2, Quantity: 3}},
	}

	for _, raw := range inputs {
		once := Sanitize(raw, catalog)
		twice := Sanitize(once, catalog)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("sanitize not idempotent: %+v vs %+v", once, twice)
		}
	}
}

func TestSanitizeCapsDistinctLines(t *testing.T) {
	catalog := fakeCatalog{}
	raw := make([]Line, 0, 30)
	for i := 1; i <= 30; i++ {
		catalog[i] = storeapi.Product{ID: i, Name: "p", Price: 100}
		raw = append(raw, Line{ProductID: i, Quantity: 1})
	}

	got := Sanitize(raw, catalog)
	if len(got) != MaxDistinctLines {
		t.Fatalf("expected cap at %d, got %d", MaxDistinctLines, len(got))
	}
}

func TestSignatureIsStable(t *testing.T) {
	a := []Line{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: 3}}
	b := []Line{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}

	if Signature(a) != Signature(b) {
		t.Fatalf("signature must not depend on order: %q vs %q", Signature(a), Signature(b))
	}
	if Signature(a) != "1:3|2:1" {
		t.Fatalf("unexpected signature %q", Signature(a))
	}
	if Signature(nil) != "" {
		t.Fatalf("empty cart should have empty signature, got %q", Signature(nil))
	}

	c := []Line{{ProductID: 1, Quantity: 4}, {ProductID: 2, Quantity: 1}}
	if Signature(a) == Signature(c) {
		t.Fatal("quantity change must alter the signature")
	}
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{ProductID: 1, UnitPrice: 10000, Quantity: 2},
		{ProductID: 2, UnitPrice: 5000, Quantity: 1},
	}
	if got := Subtotal(lines); got != 25000 {
		t.Fatalf("expected 25000, got %d", got)
	}
}

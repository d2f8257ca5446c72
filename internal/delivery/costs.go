package delivery

import "github.com/zarpadomueble-ops/storefront-gateway/pkg/money"

// Breakdown is the derived cost view shown in the checkout summary. It is
// recomputed from scratch on every read; nothing here is stored.
type Breakdown struct {
	Subtotal     money.Cents `json:"subtotal"`
	Shipping     money.Cents `json:"shipping"`
	Installation money.Cents `json:"installation"`
	Total        money.Cents `json:"total"`
}

// ComputeBreakdown derives the totals. Shipping counts only once the quote
// is ready; pickup is always free. Installation counts only for shipping
// orders where it is both offered and selected.
func ComputeBreakdown(s State, subtotal, installationBaseCost money.Cents) Breakdown {
	breakdown := Breakdown{Subtotal: money.NonNegative(subtotal)}

	if s.Method == MethodShipping && s.ShippingReady {
		breakdown.Shipping = money.NonNegative(s.ShippingCost)
	}
	if s.Method == MethodShipping && s.ShippingReady &&
		s.InstallationAvailable && s.InstallationSelected {
		breakdown.Installation = money.NonNegative(installationBaseCost)
	}

	breakdown.Total = breakdown.Subtotal + breakdown.Shipping + breakdown.Installation
	return breakdown
}

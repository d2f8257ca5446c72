package checkout

import (
	"testing"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
)

func shippingFixture() ShippingData {
	return ShippingData{
		FullName:    "Ana María López",
		Email:       "ana@example.com",
		Phone:       "+54 11 4567 8900",
		AddressLine: "Av. Libertador 1234",
		City:        "Moreno",
		Province:    "Buenos Aires",
		PostalCode:  "1744",
	}
}

func TestBuildPayloadShipping(t *testing.T) {
	lines := []cart.Line{
		{ProductID: 1, Name: "Escritorio", UnitPrice: 185000, Quantity: 2},
		{ProductID: 3, Name: "Librero", UnitPrice: -5, Quantity: 1}, // malformed price
	}

	state := delivery.NewState()
	state.PostalCode = "1744"
	state.ShippingReady = true
	state.InstallationAvailable = true
	state.InstallationSelected = true
	state.BuyerEmail = "comprador@example.com"

	payload := BuildPayload(lines, shippingFixture(), state)

	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(payload.Items))
	}
	if payload.Items[0].UnitPrice != 185000 || payload.Items[1].UnitPrice != 0 {
		t.Fatalf("unit prices wrong: %+v", payload.Items)
	}

	// Buyer email wins over the shipping-form email and lands in all
	// three spots.
	if payload.BuyerEmail != "comprador@example.com" ||
		payload.Email != "comprador@example.com" ||
		payload.Payer.Email != "comprador@example.com" {
		t.Fatalf("buyer email not tripled: %+v", payload)
	}
	if payload.Customer.Email != "ana@example.com" {
		t.Fatalf("customer email should stay the form email, got %q", payload.Customer.Email)
	}

	if payload.Delivery.Method != "shipping" {
		t.Fatalf("method = %q", payload.Delivery.Method)
	}
	if payload.Delivery.PostalCode == nil || *payload.Delivery.PostalCode != "1744" {
		t.Fatalf("postal code = %v", payload.Delivery.PostalCode)
	}
	if !payload.Delivery.InstallationRequested {
		t.Fatal("installation selection must carry through")
	}

	if payload.Customer.Street != "Av. Libertador" || payload.Customer.StreetNumber != "1234" {
		t.Fatalf("address split wrong: %+v", payload.Customer)
	}
	if payload.Customer.Zip != "1744" {
		t.Fatalf("zip = %q", payload.Customer.Zip)
	}
}

func TestBuildPayloadPickup(t *testing.T) {
	state := delivery.NewState()
	state.Method = delivery.MethodPickup
	state.PostalCode = "1744" // stale CP from an earlier shipping attempt
	state.PaymentMethod = delivery.PaymentCashPickup

	payload := BuildPayload([]cart.Line{{ProductID: 2, UnitPrice: 210000, Quantity: 1}},
		shippingFixture(), state)

	if payload.Delivery.Method != "pickup" {
		t.Fatalf("method = %q", payload.Delivery.Method)
	}
	if payload.Delivery.PostalCode != nil {
		t.Fatalf("pickup must not carry a postal code, got %v", *payload.Delivery.PostalCode)
	}
	if payload.Delivery.InstallationRequested {
		t.Fatal("pickup never requests installation")
	}
	if payload.PaymentMethod != "cash_pickup" {
		t.Fatalf("payment method = %q", payload.PaymentMethod)
	}
}

func TestBuildPayloadIsTotal(t *testing.T) {
	// Zero values everywhere must still produce a payload.
	payload := BuildPayload(nil, ShippingData{}, delivery.State{})
	if payload.Customer.StreetNumber != NoStreetNumber {
		t.Fatalf("empty address should fall back to %q, got %q", NoStreetNumber, payload.Customer.StreetNumber)
	}
	if payload.PaymentMethod != "mercadopago" {
		t.Fatalf("empty payment method should default, got %q", payload.PaymentMethod)
	}
	if len(payload.Items) != 0 {
		t.Fatalf("nil cart should produce no items, got %+v", payload.Items)
	}
}

package checkout

import (
	"strings"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// BuildPayload assembles the payment-preference request from the cart, the
// shipping-data step and the delivery state. It is total: malformed input
// yields empty or default fields, never an error, since the readiness gate
// and the shipping-data validator run before this.
func BuildPayload(lines []cart.Line, shipping ShippingData, state delivery.State) storeapi.CheckoutRequest {
	items := make([]storeapi.QuoteItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, storeapi.QuoteItem{
			ID:        line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: money.NonNegative(line.UnitPrice),
		})
	}

	email := strings.TrimSpace(state.BuyerEmail)
	if email == "" {
		email = shipping.Email
	}

	address := SplitAddressLine(shipping.AddressLine)
	paymentMethod := state.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = delivery.PaymentMercadoPago
	}

	return storeapi.CheckoutRequest{
		Items:         items,
		PaymentMethod: string(paymentMethod),
		// The backend reads the buyer email from three spots depending on
		// the code path; fill all of them.
		BuyerEmail: email,
		Email:      email,
		Payer:      storeapi.Payer{Email: email},
		Delivery:   buildDeliveryPayload(state),
		Customer: storeapi.Customer{
			FullName:     shipping.FullName,
			Email:        shipping.Email,
			Phone:        shipping.Phone,
			Address:      shipping.AddressLine,
			Street:       address.Street,
			StreetNumber: address.StreetNumber,
			City:         shipping.City,
			Province:     shipping.Province,
			Zip:          shipping.PostalCode,
		},
	}
}

func buildDeliveryPayload(state delivery.State) storeapi.DeliveryPayload {
	if state.Method == delivery.MethodPickup {
		return storeapi.DeliveryPayload{
			Method:                string(delivery.MethodPickup),
			PostalCode:            nil,
			InstallationRequested: false,
		}
	}
	postalCode := state.PostalCode
	return storeapi.DeliveryPayload{
		Method:                string(delivery.MethodShipping),
		PostalCode:            &postalCode,
		InstallationRequested: state.InstallationSelected,
	}
}

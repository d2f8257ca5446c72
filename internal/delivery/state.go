package delivery

import (
	"strings"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/money"
)

// Method is how the order leaves the factory.
type Method string

const (
	MethodShipping Method = "shipping"
	MethodPickup   Method = "pickup"
)

// PaymentMethod is the buyer-selected payment instrument. Cash is only
// offered for factory pickup.
type PaymentMethod string

const (
	PaymentMercadoPago  PaymentMethod = "mercadopago"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCashPickup   PaymentMethod = "cash_pickup"
)

// PostalCodeLength is the exact number of digits in an Argentine CP.
const PostalCodeLength = 4

// State is the delivery/checkout record the reducer owns. Mutations go
// through Apply or the quote lifecycle in Machine; never write fields
// directly from outside this package.
type State struct {
	Method     Method `json:"method"`
	PostalCode string `json:"postalCode"`

	ShippingCost    money.Cents `json:"shippingCost"`
	ShippingLabel   string      `json:"shippingLabel"`
	ShippingReady   bool        `json:"shippingReady"`
	ShippingLoading bool        `json:"shippingLoading"`
	ShippingError   string      `json:"shippingError"`

	InstallationAvailable bool `json:"installationAvailable"`
	InstallationSelected  bool `json:"installationSelected"`

	PaymentMethod PaymentMethod `json:"paymentMethod"`
	BuyerEmail    string        `json:"buyerEmail"`

	// CartSignature tracks the cart the state was last reconciled with;
	// lastQuotedKey remembers the (postal, signature) pair of the last
	// good quote so unchanged carts can keep showing it.
	CartSignature string `json:"-"`
	lastQuotedKey string
}

// NewState returns the defaults used when the checkout mounts.
func NewState() State {
	return State{
		Method:        MethodShipping,
		PaymentMethod: PaymentMercadoPago,
	}
}

// QuoteKey pairs a postal code with a cart signature. A quote is valid
// only while both match the live state.
func QuoteKey(postalCode, cartSignature string) string {
	return postalCode + "::" + cartSignature
}

func (s *State) resetShipping() {
	s.ShippingCost = 0
	s.ShippingLabel = ""
	s.ShippingReady = false
	s.ShippingLoading = false
	s.ShippingError = ""
	s.InstallationAvailable = false
	s.InstallationSelected = false
	s.lastQuotedKey = ""
}

// HasCompletePostalCode reports whether the postal code has all 4 digits.
func (s State) HasCompletePostalCode() bool {
	return len(s.PostalCode) == PostalCodeLength
}

// NormalizePostalCode strips non-digits and truncates to 4 characters.
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == PostalCodeLength {
			break
		}
	}
	return b.String()
}

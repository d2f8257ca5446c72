package delivery

import (
	"fmt"
	"strings"

	apperrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

// Event is a typed checkout interaction. Events flow through Apply one at
// a time; the reducer decides the next state and whether a quote should be
// scheduled or cancelled.
type Event interface {
	eventName() string
}

// SetMethod switches between home shipping and factory pickup.
type SetMethod struct {
	Method Method
}

// SetPostalCode records a postal-code edit. Raw input is normalized to at
// most four digits before it touches the state.
type SetPostalCode struct {
	Raw string
}

// CartChanged reconciles the delivery state with the current cart. It
// carries both the quote payload and the signature used for staleness
// detection.
type CartChanged struct {
	Items     []storeapi.QuoteItem
	Signature string
}

// ToggleInstallation selects or deselects professional installation.
type ToggleInstallation struct {
	Selected bool
}

// SetPaymentMethod picks the payment instrument. Methods outside the
// accepted set fall back to Mercado Pago.
type SetPaymentMethod struct {
	Method PaymentMethod
}

// SetBuyerEmail records the buyer contact email.
type SetBuyerEmail struct {
	Email string
}

func (SetMethod) eventName() string          { return "set_method" }
func (SetPostalCode) eventName() string      { return "set_postal_code" }
func (CartChanged) eventName() string        { return "cart_changed" }
func (ToggleInstallation) eventName() string { return "toggle_installation" }
func (SetPaymentMethod) eventName() string   { return "set_payment_method" }
func (SetBuyerEmail) eventName() string      { return "set_buyer_email" }

// WireEvent is the JSON shape the checkout events endpoint accepts.
type WireEvent struct {
	Type          string `json:"type" validate:"required"`
	Method        string `json:"method,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Selected      bool   `json:"selected,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Email         string `json:"email,omitempty"`
}

// ParseWireEvent maps a wire event into its typed form. Cart changes are
// not wire events; the gateway derives them from cart mutations.
func ParseWireEvent(ev WireEvent) (Event, error) {
	switch ev.Type {
	case "set_method":
		method := Method(ev.Method)
		if method != MethodShipping && method != MethodPickup {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("unknown delivery method %q", ev.Method))
		}
		return SetMethod{Method: method}, nil
	case "set_postal_code":
		return SetPostalCode{Raw: ev.PostalCode}, nil
	case "toggle_installation":
		return ToggleInstallation{Selected: ev.Selected}, nil
	case "set_payment_method":
		return SetPaymentMethod{Method: PaymentMethod(strings.ToLower(strings.TrimSpace(ev.PaymentMethod)))}, nil
	case "set_buyer_email":
		return SetBuyerEmail{Email: ev.Email}, nil
	default:
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("unknown event type %q", ev.Type))
	}
}

// Effect tells the caller what side work the transition requires.
type Effect int

const (
	EffectNone Effect = iota
	// EffectScheduleQuote arms (or re-arms) the debounced quote request.
	EffectScheduleQuote
	// EffectCancelQuote drops any pending quote timer without issuing a
	// request.
	EffectCancelQuote
)

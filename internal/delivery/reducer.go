package delivery

import "strings"

// Rules is the static configuration the reducer consults: which payment
// methods the store accepts and the storefront copy for delivery options.
type Rules struct {
	AcceptedPaymentMethods []PaymentMethod
}

// Accepts reports whether the store takes the given payment method.
func (r Rules) Accepts(method PaymentMethod) bool {
	for _, accepted := range r.AcceptedPaymentMethods {
		if accepted == method {
			return true
		}
	}
	return false
}

// FallbackPaymentMethod is the method forced when the current selection
// becomes invalid: Mercado Pago when accepted, otherwise the first
// accepted method.
func (r Rules) FallbackPaymentMethod() PaymentMethod {
	if r.Accepts(PaymentMercadoPago) || len(r.AcceptedPaymentMethods) == 0 {
		return PaymentMercadoPago
	}
	return r.AcceptedPaymentMethods[0]
}

// DefaultRules matches the storefront's baseline offer.
func DefaultRules() Rules {
	return Rules{
		AcceptedPaymentMethods: []PaymentMethod{
			PaymentMercadoPago,
			PaymentBankTransfer,
			PaymentCashPickup,
		},
	}
}

// Apply runs one transition. It never blocks and never talks to the
// network; quote requests are an async effect signalled through the
// returned Effect.
func Apply(s State, event Event, rules Rules) (State, Effect) {
	switch ev := event.(type) {
	case SetMethod:
		return applySetMethod(s, ev, rules)
	case SetPostalCode:
		return applySetPostalCode(s, ev)
	case CartChanged:
		return applyCartChanged(s, ev)
	case ToggleInstallation:
		return applyToggleInstallation(s, ev)
	case SetPaymentMethod:
		return applySetPaymentMethod(s, ev, rules)
	case SetBuyerEmail:
		s.BuyerEmail = strings.TrimSpace(ev.Email)
		return s, EffectNone
	default:
		return s, EffectNone
	}
}

func applySetMethod(s State, ev SetMethod, rules Rules) (State, Effect) {
	if ev.Method != MethodShipping && ev.Method != MethodPickup {
		return s, EffectNone
	}
	s.Method = ev.Method

	// Cash only exists for pickup. Switching back to shipping kicks the
	// payment method to the fallback.
	if s.Method == MethodShipping && s.PaymentMethod == PaymentCashPickup {
		s.PaymentMethod = rules.FallbackPaymentMethod()
	}

	s.resetShipping()
	if s.Method == MethodShipping && s.HasCompletePostalCode() {
		return s, EffectScheduleQuote
	}
	return s, EffectCancelQuote
}

func applySetPostalCode(s State, ev SetPostalCode) (State, Effect) {
	normalized := NormalizePostalCode(ev.Raw)
	// Re-entering the failed postal code is the retry gesture; only a
	// settled or in-flight quote makes the same value a no-op.
	if normalized == s.PostalCode && s.ShippingError == "" {
		return s, EffectNone
	}
	s.PostalCode = normalized
	s.resetShipping()
	if s.Method == MethodShipping && s.HasCompletePostalCode() {
		return s, EffectScheduleQuote
	}
	return s, EffectCancelQuote
}

func applyCartChanged(s State, ev CartChanged) (State, Effect) {
	if ev.Signature == s.CartSignature {
		return s, EffectNone
	}
	s.CartSignature = ev.Signature

	// A quote priced a specific cart. Once the cart moves, the quote is
	// stale and shipping must be re-validated before checkout.
	if s.Method == MethodShipping && s.HasCompletePostalCode() &&
		s.lastQuotedKey != QuoteKey(s.PostalCode, s.CartSignature) {
		s.resetShipping()
		return s, EffectScheduleQuote
	}
	if s.ShippingReady && s.lastQuotedKey != QuoteKey(s.PostalCode, s.CartSignature) {
		s.resetShipping()
	}
	return s, EffectNone
}

func applyToggleInstallation(s State, ev ToggleInstallation) (State, Effect) {
	if !ev.Selected {
		s.InstallationSelected = false
		return s, EffectNone
	}
	if s.Method == MethodShipping && s.ShippingReady && s.InstallationAvailable {
		s.InstallationSelected = true
	}
	return s, EffectNone
}

func applySetPaymentMethod(s State, ev SetPaymentMethod, rules Rules) (State, Effect) {
	method := ev.Method
	if !rules.Accepts(method) {
		method = rules.FallbackPaymentMethod()
	}
	s.PaymentMethod = method

	// Picking cash drags the delivery method to pickup.
	if method == PaymentCashPickup && s.Method != MethodPickup {
		s.Method = MethodPickup
		s.resetShipping()
		return s, EffectCancelQuote
	}
	return s, EffectNone
}

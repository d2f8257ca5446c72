package delivery

// Checkout blocking reasons, verbatim storefront copy.
const (
	ReasonEmptyCart = "El carrito está vacío. Agregá al menos un producto para continuar."
	ReasonQuoting   = "Estamos calculando tu envío. Esperá unos segundos."
	ReasonNeedsCP   = "Ingresá el código postal o elegí retiro por fábrica para continuar."
	ReasonNotReady  = "Necesitamos validar el envío antes de continuar."
)

// Readiness says whether the order can be confirmed and, when it cannot,
// the message shown next to the disabled button.
type Readiness struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// EvaluateReadiness applies the confirm gate. Pickup orders only need a
// non-empty cart; shipping orders additionally need a settled quote.
func EvaluateReadiness(s State, cartEmpty bool) Readiness {
	if cartEmpty {
		return Readiness{Reason: ReasonEmptyCart}
	}
	if s.Method == MethodPickup {
		return Readiness{OK: true}
	}
	if s.ShippingLoading {
		return Readiness{Reason: ReasonQuoting}
	}
	if !s.HasCompletePostalCode() {
		return Readiness{Reason: ReasonNeedsCP}
	}
	if s.ShippingError != "" {
		return Readiness{Reason: s.ShippingError}
	}
	if !s.ShippingReady {
		return Readiness{Reason: ReasonNotReady}
	}
	return Readiness{OK: true}
}

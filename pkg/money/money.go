package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cents is an integer amount in ARS cents. All arithmetic in the gateway
// stays integral; the backend owns any real pricing math.
type Cents int64

var arPrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatARS renders an amount the way the storefront shows prices,
// e.g. 200000 -> "$200.000".
func FormatARS(amount Cents) string {
	return "$" + arPrinter.Sprintf("%d", int64(amount))
}

// ParseCents parses a decimal string into Cents. Unlike strconv it mirrors
// the storefront's lenient integer parsing: malformed or negative input
// collapses to zero.
func ParseCents(raw string) Cents {
	trimmed := strings.TrimSpace(raw)
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return Cents(parsed)
}

// NonNegative clamps negatives to zero.
func NonNegative(amount Cents) Cents {
	if amount < 0 {
		return 0
	}
	return amount
}

package checkout

import (
	"regexp"
	"strings"
)

// NoStreetNumber is used when the address line has no trailing number,
// common for rural addresses and named corners.
const NoStreetNumber = "S/N"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	trailingToken = regexp.MustCompile(`^(.*?)(?:\s+(\d+[A-Za-z0-9./-]*))$`)
)

// Address is a free-text address line split for the payment backend.
type Address struct {
	Street       string
	StreetNumber string
}

// SplitAddressLine separates "Av. Libertador 1234 2B" style lines into
// street and number using a trailing-numeric-token heuristic. It never
// fails: lines without a number keep the whole text as street.
func SplitAddressLine(addressLine string) Address {
	normalized := whitespaceRun.ReplaceAllString(strings.TrimSpace(addressLine), " ")

	match := trailingToken.FindStringSubmatch(normalized)
	if match == nil {
		return Address{Street: normalized, StreetNumber: NoStreetNumber}
	}

	street := strings.TrimSpace(match[1])
	if street == "" {
		street = normalized
	}
	number := strings.TrimSpace(match[2])
	if number == "" {
		number = NoStreetNumber
	}
	return Address{Street: street, StreetNumber: number}
}

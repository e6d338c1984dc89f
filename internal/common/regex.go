package common

import (
	"regexp"
	"strings"
)

var postcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

// NormalizePostcode upper-cases a UK postcode and collapses inner whitespace.
func NormalizePostcode(postcode string) string {
	return strings.Join(strings.Fields(strings.ToUpper(postcode)), " ")
}

// IsUKPostcode reports whether postcode has the shape of a UK postcode.
func IsUKPostcode(postcode string) bool {
	return postcodePattern.MatchString(NormalizePostcode(postcode))
}

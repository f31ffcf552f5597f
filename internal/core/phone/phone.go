// Package phone normalizes customer phone numbers into the key used to match
// a customer's invoice history.
package phone

import (
	"strings"
	"unicode"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "IN"

// Normalizer turns raw phone input into a comparable key.
type Normalizer struct {
	region string
}

// NewNormalizer creates a normalizer for numbers written without a country code.
func NewNormalizer(region string) *Normalizer {
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: strings.ToUpper(region)}
}

// Key returns the E.164 form of raw when it is a valid number for the
// configured region, otherwise raw with all whitespace removed.
// Blank input yields an empty key.
func (n *Normalizer) Key(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if num, err := libphonenumber.Parse(raw, n.region); err == nil && libphonenumber.IsValidNumber(num) {
		return libphonenumber.Format(num, libphonenumber.E164)
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// Valid reports whether raw parses as a valid number for the region.
func (n *Normalizer) Valid(raw string) bool {
	num, err := libphonenumber.Parse(strings.TrimSpace(raw), n.region)
	return err == nil && libphonenumber.IsValidNumber(num)
}

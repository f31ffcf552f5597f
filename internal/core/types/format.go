package types

import (
	"strings"
)

// FormatINR renders an amount the way invoices print it: rupee sign, two
// decimals, and Indian digit grouping (last three digits, then pairs).
//
//	FormatINR(MustMoney("1234567.5")) == "₹12,34,567.50"
func FormatINR(m Money) string {
	fixed := m.Abs().StringFixed(MoneyScale)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if m.Round(MoneyScale).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

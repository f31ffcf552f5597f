package invoice

import (
	"invoicer/internal/core/types"
)

// LineTotal returns quantity × rate rounded to two decimals. Negative inputs
// count as zero.
func LineTotal(quantity types.Quantity, rate types.Money) types.Money {
	return types.Round(types.NonNegative(quantity).Mul(types.NonNegative(rate)))
}

// Calculate writes each line's total and returns the grand total.
// Totals are always derived from quantity and rate; whatever was stored in
// Total before is discarded.
func Calculate(items []Item) types.Money {
	grand := types.Zero()
	for i := range items {
		items[i].Total = LineTotal(items[i].Quantity, items[i].Rate)
		grand = grand.Add(items[i].Total)
	}
	return grand
}

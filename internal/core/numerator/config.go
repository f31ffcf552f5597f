// Package numerator provides the contract and number layout for invoice auto-numbering.
package numerator

import (
	"fmt"
	"time"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict bumps the stored counter for every number.
	// Guarantees sequential numbers without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Faster, but may produce gaps if the process restarts.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Reset periods.
const (
	ResetDaily   = "day"
	ResetMonthly = "month"
	ResetYearly  = "year"
	ResetNever   = "never"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "AB")
	Prefix string

	// DateLayout is a Go time layout rendered between prefix and counter.
	// Empty means no date segment.
	DateLayout string

	// PadWidth is the minimum counter width (default 4)
	PadWidth int

	// ResetPeriod: "day", "month", "year", "never"
	ResetPeriod string
}

// InvoiceConfig returns the invoice layout PREFIX-YYMMDD-NNNN with a daily reset.
func InvoiceConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		DateLayout:  "060102",
		PadWidth:    4,
		ResetPeriod: ResetDaily,
	}
}

// Key returns the sequence key the counter is stored under for period.
func (c Config) Key(period time.Time) string {
	switch c.ResetPeriod {
	case ResetDaily:
		return fmt.Sprintf("%s_%s", c.Prefix, period.Format("20060102"))
	case ResetMonthly:
		return fmt.Sprintf("%s_%s", c.Prefix, period.Format("200601"))
	case ResetYearly:
		return fmt.Sprintf("%s_%s", c.Prefix, period.Format("2006"))
	default:
		return c.Prefix
	}
}

// Format renders counter value num for period.
func (c Config) Format(period time.Time, num int64) string {
	padWidth := c.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	if c.DateLayout != "" {
		return fmt.Sprintf("%s-%s-%0*d", c.Prefix, period.Format(c.DateLayout), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, padWidth, num)
}

package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceConfig_Layout(t *testing.T) {
	cfg := InvoiceConfig("AB")
	day := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "AB-260307-0001", cfg.Format(day, 1))
	assert.Equal(t, "AB-260307-12345", cfg.Format(day, 12345))
	assert.Equal(t, "AB_20260307", cfg.Key(day))
}

func TestConfig_KeysPerResetPeriod(t *testing.T) {
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "X_202603", Config{Prefix: "X", ResetPeriod: ResetMonthly}.Key(day))
	assert.Equal(t, "X_2026", Config{Prefix: "X", ResetPeriod: ResetYearly}.Key(day))
	assert.Equal(t, "X", Config{Prefix: "X", ResetPeriod: ResetNever}.Key(day))
	assert.Equal(t, "X-0007", Config{Prefix: "X"}.Format(day, 7))
}

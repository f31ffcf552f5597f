package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenient_Coercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `150`, "150"},
		{"fraction", `2.5`, "2.5"},
		{"numeric string", `" 42.10 "`, "42.1"},
		{"empty string", `""`, "0"},
		{"word", `"abc"`, "0"},
		{"null", `null`, "0"},
		{"true", `true`, "1"},
		{"false", `false`, "0"},
		{"object", `{"a":1}`, "0"},
		{"negative", `-3`, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Lenient
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &l))
			assert.True(t, MustMoney(tt.want).Equal(l.Decimal()), "got %s", l.Decimal())
		})
	}
}

func TestLenient_InsideStruct(t *testing.T) {
	var body struct {
		Quantity Lenient `json:"quantity"`
		Rate     Lenient `json:"rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":"2","rate":"x"}`), &body))

	assert.Equal(t, "2", body.Quantity.Decimal().String())
	assert.True(t, body.Rate.Decimal().IsZero())
}

func TestMoney_MarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]Money{"total": MustMoney("300.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":300.5}`, string(out))
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"123456.789", "₹1,23,456.79"},
		{"1234567.5", "₹12,34,567.50"},
		{"-2500", "-₹2,500.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(MustMoney(tt.in)), tt.in)
	}
}

func TestRoundAndClamp(t *testing.T) {
	assert.Equal(t, "10.13", Round(MustMoney("10.125")).String())
	assert.True(t, NonNegative(MustMoney("-1")).IsZero())
	assert.Equal(t, "6", Sum(MustMoney("1"), MustMoney("2"), MustMoney("3")).String())
}

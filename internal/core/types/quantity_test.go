package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuantityString(t *testing.T) {
	tests := []struct {
		in   Quantity
		want string
	}{
		{NewQuantityFromFloat64(150), "150.0000"},
		{NewQuantityFromFloat64(0.5), "0.5000"},
		{NewQuantityFromFloat64(-2.25), "-2.2500"},
		{0, "0.0000"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String(%d): want %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestQuantityUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Quantity
	}{
		{"number", `12.5`, NewQuantityFromFloat64(12.5)},
		{"string", `"12.5"`, NewQuantityFromFloat64(12.5)},
		{"negative", `-3`, NewQuantityFromFloat64(-3)},
		{"excess precision truncated", `1.23456`, NewQuantityFromInt64Scaled(12345)},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			if err := json.Unmarshal([]byte(tt.in), &q); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if q != tt.want {
				t.Errorf("want %d, got %d", tt.want, q)
			}
		})
	}
}

func TestQuantityUnmarshalJSON_Invalid(t *testing.T) {
	var q Quantity
	if err := json.Unmarshal([]byte(`"abc"`), &q); err == nil {
		t.Error("expected parse error")
	}
}

func TestQuantityDecimalRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1234.5678")
	q := NewQuantityFromDecimal(d)
	if !q.Decimal().Equal(d) {
		t.Errorf("round trip: want %s, got %s", d, q.Decimal())
	}
}

func TestQuantityUnits(t *testing.T) {
	if got := NewQuantityFromFloat64(2.9).Units(); got != 2 {
		t.Errorf("Units truncates: want 2, got %d", got)
	}
	if got := NewQuantityFromInt(7).Units(); got != 7 {
		t.Errorf("Units: want 7, got %d", got)
	}
}

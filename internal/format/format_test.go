package format

import (
	"testing"
	"time"
)

func TestDollars(t *testing.T) {
	tests := map[int64]string{
		0:       "$0",
		950:     "$950",
		8500:    "$8,500",
		1250000: "$1,250,000",
		-4200:   "-$4,200",
	}
	for in, want := range tests {
		if got := Dollars(in); got != want {
			t.Errorf("Dollars(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFmtCurrency(t *testing.T) {
	if got := FmtCurrency(1234505); got != "$12,345.05" {
		t.Fatalf("got %q", got)
	}
	if got := FmtCurrency(-99); got != "-$0.99" {
		t.Fatalf("got %q", got)
	}
}

func TestPriceRange(t *testing.T) {
	tests := []struct {
		low, high int64
		unit      string
		want      string
	}{
		{8500, 16000, "per balcony", "$8,500 to $16,000 per balcony"},
		{12, 0, "per sq ft", "From $12 per sq ft"},
		{0, 900, "", "Up to $900"},
		{500, 500, "", "$500"},
		{0, 0, "per job", "Call for pricing"},
	}
	for _, tt := range tests {
		if got := PriceRange(tt.low, tt.high, tt.unit); got != tt.want {
			t.Errorf("PriceRange(%d, %d, %q) = %q, want %q", tt.low, tt.high, tt.unit, got, tt.want)
		}
	}
}

func TestDates(t *testing.T) {
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := FmtDate(d); got != "June 2, 2025" {
		t.Fatalf("FmtDate = %q", got)
	}
	if got := ISODate(d); got != "2025-06-02" {
		t.Fatalf("ISODate = %q", got)
	}
	if FmtDate(time.Time{}) != "" || ISODate(time.Time{}) != "" {
		t.Fatalf("zero time should render empty")
	}
}

package fx

import "testing"

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.08503, "1.0850"},
		{1.0850, "1.0850"},
		{0.9999951, "1.0000"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.in); got != c.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{12500, "$12,500"},
		{-3200, "-$3,200"},
		{1234567.4, "$1,234,567"},
	}
	for _, c := range cases {
		if got := FormatUSD(c.in); got != c.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTierForSize(t *testing.T) {
	cases := []struct {
		size float64
		want Tier
	}{
		{1, Tier1M},
		{4, Tier1M},
		{5, Tier5M},
		{9, Tier5M},
		{10, Tier10M},
		{49, Tier10M},
		{50, Tier50M},
		{120, Tier50M},
	}
	for _, c := range cases {
		if got := TierForSize(c.size); got != c.want {
			t.Errorf("TierForSize(%v) = %v, want %v", c.size, got, c.want)
		}
	}
}

func TestSideOpposite(t *testing.T) {
	if SideBuy.Opposite() != SideSell || SideSell.Opposite() != SideBuy {
		t.Error("Opposite is not an involution")
	}
}

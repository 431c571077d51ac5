// Package fx holds the shared vocabulary for the quoted pair:
// sides, size tiers, pip arithmetic, and display formatting.
package fx

import "strconv"

// PipSize is one pip in price terms (standard EUR/USD quotation).
const PipSize = 0.0001

// NotionalPerUnit converts a position unit (1 = 1M base currency)
// into quote-currency notional.
const NotionalPerUnit = 1_000_000

// Side represents the direction of a trade or request.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Sign returns +1 for a buy and -1 for a sell.
func (s Side) Sign() float64 {
	if s == SideBuy {
		return 1
	}
	return -1
}

// Tier is a notional size bucket, in millions.
type Tier int

const (
	Tier1M  Tier = 1
	Tier5M  Tier = 5
	Tier10M Tier = 10
	Tier50M Tier = 50
)

// Tiers lists all size buckets in ascending order.
var Tiers = []Tier{Tier1M, Tier5M, Tier10M, Tier50M}

func (t Tier) String() string { return strconv.Itoa(int(t)) + "M" }

// TierForSize returns the largest bucket at or below size.
// Sizes below the smallest bucket map to the 1M tier.
func TierForSize(size float64) Tier {
	switch {
	case size >= 50:
		return Tier50M
	case size >= 10:
		return Tier10M
	case size >= 5:
		return Tier5M
	default:
		return Tier1M
	}
}

// Pips converts a price delta to pips.
func Pips(priceDelta float64) float64 { return priceDelta / PipSize }

// PriceDelta converts pips to a price delta.
func PriceDelta(pips float64) float64 { return pips * PipSize }

// Quote is a two-way price.
type Quote struct {
	Bid float64
	Ask float64
}

// TierQuotes holds a two-way price per size tier.
type TierQuotes map[Tier]Quote

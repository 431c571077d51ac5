package market

import (
	"math"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
)

// perTickFraction spreads the computed impact across ticks instead of
// applying it all at once. Kept as a fixed constant to match observed
// behavior, not derived from the tick interval.
const perTickFraction = 0.1

// tradeImpact is one executed trade's pending pressure on the mid.
// Owned exclusively by the engine.
type tradeImpact struct {
	at          time.Time
	size        float64
	direction   float64 // +1 buy, -1 sell
	banksFactor float64 // 0..1
}

// Impact describes a trade the market should react to.
// BanksAsked counts competing dealers the client solicited; zero means
// the dealer's own hedge, which always carries full impact.
type Impact struct {
	Size       float64
	Side       fx.Side
	BanksAsked int
}

// RecordImpact registers a trade with the decay model.
func (e *Engine) RecordImpact(now time.Time, imp Impact) {
	if !e.cfg.Impact.Enabled || imp.Size <= 0 {
		return
	}
	e.impacts = append(e.impacts, tradeImpact{
		at:          now,
		size:        imp.Size,
		direction:   imp.Side.Sign(),
		banksFactor: e.banksFactor(imp.BanksAsked),
	})
}

// banksFactor maps banks-asked to an impact weight. A client who asked
// only us moves nothing; a client shopping MaxBanks dealers moves the
// full amount. Hedges (banksAsked == 0) are full weight.
func (e *Engine) banksFactor(banksAsked int) float64 {
	if banksAsked == 0 {
		return 1
	}
	if banksAsked <= 1 {
		return 0
	}
	maxBanks := e.cfg.Impact.MaxBanks
	if maxBanks <= 1 {
		return 1
	}
	f := float64(banksAsked-1) / float64(maxBanks-1)
	return math.Min(1, f)
}

// impactDrift sums the decayed pressure of all live impacts and
// returns the per-tick mid adjustment in price terms.
func (e *Engine) impactDrift(now time.Time) float64 {
	if !e.cfg.Impact.Enabled {
		return 0
	}
	e.prune(now)
	if len(e.impacts) == 0 {
		return 0
	}

	halfLife := e.cfg.Impact.HalfLife.Seconds()
	var sum float64
	inBurst := 0
	for _, imp := range e.impacts {
		age := now.Sub(imp.at).Seconds()
		decay := math.Pow(0.5, age/halfLife)
		sum += math.Sqrt(imp.size) * e.cfg.Impact.SizeScaleFactor * imp.banksFactor * decay * imp.direction
		if age <= e.cfg.Impact.BurstWindow.Seconds() {
			inBurst++
		}
	}

	burst := 1 + math.Log(math.Max(1, float64(inBurst)))*0.5
	burst = math.Min(e.cfg.Impact.BurstMultiplierMax, burst)
	total := sum * burst

	maxImpact := fx.PriceDelta(e.cfg.Impact.MaxImpactPips)
	total = math.Max(-maxImpact, math.Min(maxImpact, total))

	return total * perTickFraction
}

// DriftPips reports the current impact drift in pips, for display.
func (e *Engine) DriftPips(now time.Time) float64 {
	return fx.Pips(e.impactDrift(now) / perTickFraction)
}

// prune drops impacts older than five half-lives; their remaining
// contribution is below 1/32 of the original.
func (e *Engine) prune(now time.Time) {
	cutoff := now.Add(-5 * e.cfg.Impact.HalfLife)
	kept := e.impacts[:0]
	for _, imp := range e.impacts {
		if imp.at.After(cutoff) {
			kept = append(kept, imp)
		}
	}
	e.impacts = kept
}

// Package spread simulates dealable spreads per size tier: a
// mean-reverting random walk on the base spread, widened by a
// volatility factor and a trading-session multiplier.
package spread

import (
	"math"
	"math/rand"

	"github.com/voxline/dealerdesk/internal/fx"
)

// TierSpreads holds the spread per size tier, in price terms.
type TierSpreads map[fx.Tier]float64

// Engine produces tier spreads tick by tick.
type Engine struct {
	cfg Config
	rng *rand.Rand

	baseSpread        float64
	volatilityFactor  float64 // 0 = calm
	sessionMultiplier float64
}

// NewEngine creates a spread engine seeded from cfg.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if cfg.BaseSpreadMean <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:               cfg,
		rng:               rng,
		baseSpread:        cfg.BaseSpreadMean,
		sessionMultiplier: 1.0,
	}
}

// Tick advances the base-spread walk and returns the spread per tier.
// Larger tiers always quote at least as wide as smaller ones.
func (e *Engine) Tick() TierSpreads {
	move := (e.rng.Float64()*2 - 1) * e.cfg.SpreadVolatility
	reversion := (e.cfg.BaseSpreadMean - e.baseSpread) * e.cfg.MeanReversionSpeed
	e.baseSpread += move + reversion

	maxSpread := e.cfg.BaseSpreadMax * (1 + e.volatilityFactor)
	e.baseSpread = math.Max(e.cfg.BaseSpreadMin, math.Min(maxSpread, e.baseSpread))

	mult := (1 + e.volatilityFactor) * e.sessionMultiplier

	out := make(TierSpreads, len(fx.Tiers))
	for _, tier := range fx.Tiers {
		widened := (e.baseSpread + e.cfg.TierAdditions[tier]) * mult
		out[tier] = math.Max(e.cfg.TierMinimums[tier]*mult, widened)
	}
	return out
}

// SetVolatilityFactor sets the news-driven widening factor, floored
// at zero.
func (e *Engine) SetVolatilityFactor(factor float64) {
	e.volatilityFactor = math.Max(0, factor)
}

// VolatilityFactor returns the current widening factor.
func (e *Engine) VolatilityFactor() float64 { return e.volatilityFactor }

// SetSessionMultiplier sets the session widening, floored at 0.5x.
func (e *Engine) SetSessionMultiplier(mult float64) {
	e.sessionMultiplier = math.Max(0.5, mult)
}

// SessionMultiplier returns the current session widening.
func (e *Engine) SessionMultiplier() float64 { return e.sessionMultiplier }

// BaseSpread returns the current base spread in price terms.
func (e *Engine) BaseSpread() float64 { return e.baseSpread }

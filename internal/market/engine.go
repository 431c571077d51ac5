// Package market simulates the EUR/USD mid price: a random walk with
// drift, perturbed by decaying trade impact and instantaneous news
// shocks. The engine is deterministic given its rand source; it has no
// goroutines, channels, or time calls.
package market

import (
	"math/rand"
	"time"
)

// Price is the result of one engine tick.
type Price struct {
	Mid    float64
	Bid    float64
	Ask    float64
	Spread float64
	Time   time.Time
}

// Engine produces the mid price tick by tick.
type Engine struct {
	cfg Config
	rng *rand.Rand

	mid    float64
	spread float64

	impacts []tradeImpact
}

// NewEngine creates a market engine seeded from cfg.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if cfg.InitialMid <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:    cfg,
		rng:    rng,
		mid:    cfg.InitialMid,
		spread: cfg.BaseSpread,
	}
}

// Tick advances the walk one step and returns the new price.
func (e *Engine) Tick(now time.Time) Price {
	move := (e.rng.Float64()*2 - 1) * e.cfg.Volatility
	e.mid += move + e.cfg.Drift + e.impactDrift(now)

	half := e.spread / 2
	return Price{
		Mid:    e.mid,
		Bid:    e.mid - half,
		Ask:    e.mid + half,
		Spread: e.spread,
		Time:   now,
	}
}

// ApplyShock moves the mid instantly by delta (news events). It
// bypasses the impact decay model entirely.
func (e *Engine) ApplyShock(delta float64) {
	e.mid += delta
}

// SetSpread overrides the single market spread used for bid/ask.
func (e *Engine) SetSpread(spread float64) {
	if spread > 0 {
		e.spread = spread
	}
}

// Mid returns the current mid without advancing the walk.
func (e *Engine) Mid() float64 { return e.mid }

// Spread returns the current single market spread.
func (e *Engine) Spread() float64 { return e.spread }

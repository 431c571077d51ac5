package market

import "time"

// Config holds configuration for the market engine.
type Config struct {
	// InitialMid is the starting mid price.
	InitialMid float64
	// Volatility is the maximum random move per tick, in price terms.
	Volatility float64
	// Drift is a constant directional bias added every tick.
	Drift float64
	// BaseSpread is the single market spread, in price terms.
	BaseSpread float64
	// Impact configures the trade-impact decay model.
	Impact ImpactConfig
}

// ImpactConfig holds configuration for the trade-impact model.
type ImpactConfig struct {
	// Enabled turns the impact model on or off.
	Enabled bool
	// HalfLife is the impact decay half-life.
	HalfLife time.Duration
	// MaxImpactPips caps the summed impact drift, in pips.
	MaxImpactPips float64
	// SizeScaleFactor scales sqrt(size) into price terms.
	SizeScaleFactor float64
	// BurstWindow is the lookback for counting clustered trades.
	BurstWindow time.Duration
	// BurstMultiplierMax caps the clustering multiplier.
	BurstMultiplierMax float64
	// MaxBanks is the banks-asked count that yields full impact.
	MaxBanks int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		InitialMid: 1.0850,
		Volatility: 0.00005,
		Drift:      0,
		BaseSpread: 0.00008,
		Impact: ImpactConfig{
			Enabled:            true,
			HalfLife:           time.Second,
			MaxImpactPips:      3,
			SizeScaleFactor:    0.000005,
			BurstWindow:        5 * time.Second,
			BurstMultiplierMax: 3,
			MaxBanks:           10,
		},
	}
}

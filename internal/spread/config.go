package spread

import "github.com/voxline/dealerdesk/internal/fx"

// Config holds configuration for the spread engine.
type Config struct {
	// BaseSpreadMin is the floor on the 1M base spread, in price terms.
	BaseSpreadMin float64
	// BaseSpreadMax is the calm-market cap on the base spread.
	BaseSpreadMax float64
	// BaseSpreadMean is the mean-reversion target.
	BaseSpreadMean float64
	// SpreadVolatility is the maximum random move per tick.
	SpreadVolatility float64
	// MeanReversionSpeed pulls the base spread back to the mean (0-1).
	MeanReversionSpeed float64
	// TierAdditions widens each tier additively, in price terms.
	TierAdditions map[fx.Tier]float64
	// TierMinimums floors each tier, in price terms.
	TierMinimums map[fx.Tier]float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		BaseSpreadMin:      0.00005, // 0.5 pips
		BaseSpreadMax:      0.0002,  // 2 pips
		BaseSpreadMean:     0.0001,  // 1 pip
		SpreadVolatility:   0.00002, // 0.2 pip per tick
		MeanReversionSpeed: 0.05,
		TierAdditions: map[fx.Tier]float64{
			fx.Tier1M:  0,
			fx.Tier5M:  0.00005,
			fx.Tier10M: 0.0001,
			fx.Tier50M: 0.0002,
		},
		TierMinimums: map[fx.Tier]float64{
			fx.Tier1M:  0.00005,
			fx.Tier5M:  0.0001,
			fx.Tier10M: 0.00015,
			fx.Tier50M: 0.00025,
		},
	}
}

package game

import (
	"time"

	"github.com/voxline/dealerdesk/internal/market"
	"github.com/voxline/dealerdesk/internal/news"
	"github.com/voxline/dealerdesk/internal/rfq"
	"github.com/voxline/dealerdesk/internal/spread"
)

// Config holds configuration for the game.
type Config struct {
	// Market is the configuration for the mid-price engine.
	Market market.Config
	// Spread is the configuration for the tier spread engine.
	Spread spread.Config
	// News is the configuration for the news engine.
	News news.Config
	// Voice is the configuration for the voice RFQ engine.
	Voice rfq.VoiceConfig
	// Electronic is the configuration for the electronic RFQ engine.
	Electronic rfq.ElectronicConfig

	// PriceInterval is the mid-price tick cadence.
	PriceInterval time.Duration
	// SpreadInterval is the tier-spread tick cadence.
	SpreadInterval time.Duration
	// VoiceInterval is the voice RFQ tick cadence.
	VoiceInterval time.Duration
	// ElectronicInterval is the electronic RFQ tick cadence.
	ElectronicInterval time.Duration
	// TwapSliceInterval is the gap between TWAP child trades.
	TwapSliceInterval time.Duration
	// MinuteInterval is how much real time one game minute takes.
	MinuteInterval time.Duration

	// StartMinute is the game minute of day the clock starts at.
	StartMinute int
	// PriceHistorySize caps the retained mid-price history.
	PriceHistorySize int
	// TwapSliceSize is the child trade size in millions.
	TwapSliceSize float64
	// ShockDelay is how long after a news event its price shock lands.
	ShockDelay time.Duration
	// VolBoostDecayMinutes is how many game minutes a news volatility
	// boost takes to decay back to zero.
	VolBoostDecayMinutes int
	// CommandBuffer sizes the player command channel.
	CommandBuffer int
	// Seed seeds the random source; zero seeds from the wall clock.
	Seed int64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Market:     market.DefaultConfig(),
		Spread:     spread.DefaultConfig(),
		News:       news.DefaultConfig(),
		Voice:      rfq.DefaultVoiceConfig(),
		Electronic: rfq.DefaultElectronicConfig(),

		PriceInterval:      100 * time.Millisecond,
		SpreadInterval:     500 * time.Millisecond,
		VoiceInterval:      500 * time.Millisecond,
		ElectronicInterval: 200 * time.Millisecond,
		TwapSliceInterval:  10 * time.Second,
		MinuteInterval:     time.Second,

		StartMinute:          7 * 60,
		PriceHistorySize:     600,
		TwapSliceSize:        5,
		ShockDelay:           1500 * time.Millisecond,
		VolBoostDecayMinutes: 10,
		CommandBuffer:        64,
	}
}

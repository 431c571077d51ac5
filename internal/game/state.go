package game

import (
	"sync"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/ledger"
	"github.com/voxline/dealerdesk/internal/news"
	"github.com/voxline/dealerdesk/internal/rfq"
	"github.com/voxline/dealerdesk/internal/spread"
)

// PricePoint is one mid-price observation for charting.
type PricePoint struct {
	Time time.Time
	Mid  float64
}

// EPricing is the player's electronic pricing controls. SkewPips
// shifts both sides of every tier quote; MinSpreadPips floors the
// quoted width.
type EPricing struct {
	SkewPips      float64
	MinSpreadPips float64
}

// TwapStatus reports the hedging algo's progress.
type TwapStatus struct {
	Active    bool
	Side      fx.Side
	Total     float64 // millions
	Remaining float64
	SliceSize float64
}

// Snapshot is a point-in-time copy of everything the UI renders.
// Slices and maps are fresh copies; readers must not mutate shared
// Client pointers inside RFQ records.
type Snapshot struct {
	Time       time.Time
	Running    bool
	GameMinute int
	Clock      string
	Session    spread.Session

	Mid              float64
	Bid              float64
	Ask              float64
	SpreadPips       float64
	ImpactPips       float64
	VolatilityFactor float64

	TierPrices      fx.TierQuotes
	TierSpreadsPips map[fx.Tier]float64
	EPricing        EPricing

	Position    ledger.Position
	PnL         ledger.PnL
	ExposureUSD float64
	Trades      []ledger.Trade
	Twap        TwapStatus

	PriceHistory []PricePoint

	Chat        []rfq.ChatMessage
	VoiceRfq    rfq.VoiceRfq
	HasVoiceRfq bool

	ElectronicRfqs []rfq.ElectronicRfq

	News               []news.Item
	UpcomingRelease    news.ScheduledRelease
	HasUpcomingRelease bool
}

// stateView holds the latest published snapshot behind a lock so the
// UI can poll without touching run-loop state.
type stateView struct {
	mu   sync.RWMutex
	snap Snapshot
}

func newStateView() *stateView {
	return &stateView{}
}

func (v *stateView) publish(s Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap = s
}

// Snapshot returns a deep copy of the current state.
func (v *stateView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := v.snap
	s.TierPrices = copyTierQuotes(v.snap.TierPrices)
	s.TierSpreadsPips = copyTierPips(v.snap.TierSpreadsPips)
	s.Trades = append([]ledger.Trade(nil), v.snap.Trades...)
	s.PriceHistory = append([]PricePoint(nil), v.snap.PriceHistory...)
	s.Chat = append([]rfq.ChatMessage(nil), v.snap.Chat...)
	s.ElectronicRfqs = append([]rfq.ElectronicRfq(nil), v.snap.ElectronicRfqs...)
	s.News = append([]news.Item(nil), v.snap.News...)
	return s
}

func copyTierQuotes(in fx.TierQuotes) fx.TierQuotes {
	if in == nil {
		return nil
	}
	out := make(fx.TierQuotes, len(in))
	for t, q := range in {
		out[t] = q
	}
	return out
}

func copyTierPips(in map[fx.Tier]float64) map[fx.Tier]float64 {
	if in == nil {
		return nil
	}
	out := make(map[fx.Tier]float64, len(in))
	for t, p := range in {
		out[t] = p
	}
	return out
}

// Package ledger tracks the dealer's net position and realized and
// unrealized P&L from an append-only trade log. Price and size
// arithmetic is done in decimals so P&L is exact; the stochastic
// engines hand in float64 prices at the boundary.
package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxline/dealerdesk/internal/fx"
)

// notional converts one position unit (1M base) into quote notional.
var notional = decimal.NewFromInt(fx.NotionalPerUnit)

// TradeKind classifies how a trade reached the book.
type TradeKind string

const (
	TradeHedge      TradeKind = "hedge"
	TradeVoice      TradeKind = "voice"
	TradeElectronic TradeKind = "electronic"
	TradeAlgo       TradeKind = "algo"
)

// Trade is an immutable executed-trade record.
type Trade struct {
	ID           string
	Side         fx.Side
	Size         float64 // millions, > 0
	Price        float64
	Time         time.Time
	Counterparty string
	ClientID     string
	Kind         TradeKind
}

// Position is the dealer's net exposure. Amount is in millions of
// base currency, positive when long. AveragePrice is meaningless at
// zero amount and reported as 0.
type Position struct {
	Amount       float64
	AveragePrice float64
	Currency     string
}

// PnL is derived from the position and the current mid on demand.
type PnL struct {
	Realized   float64
	Unrealized float64
	Total      float64
}

// Ledger mutates the position exclusively through Execute.
type Ledger struct {
	amount   decimal.Decimal
	avgPrice decimal.Decimal
	realized decimal.Decimal
	trades   []Trade
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Execute books a trade against the position. Trades are never
// rejected; sizing and risk limits live outside the ledger.
func (l *Ledger) Execute(now time.Time, side fx.Side, size, price float64, counterparty, clientID string, kind TradeKind) Trade {
	trade := Trade{
		ID:           uuid.NewString(),
		Side:         side,
		Size:         size,
		Price:        price,
		Time:         now,
		Counterparty: counterparty,
		ClientID:     clientID,
		Kind:         kind,
	}

	dSize := decimal.NewFromFloat(size)
	dPrice := decimal.NewFromFloat(price)
	tradeAmount := dSize
	if side == fx.SideSell {
		tradeAmount = dSize.Neg()
	}

	// Realize P&L on the portion that offsets the current position.
	if !l.amount.IsZero() && tradeAmount.Sign() != l.amount.Sign() {
		closed := decimal.Min(tradeAmount.Abs(), l.amount.Abs())
		perUnit := dPrice.Sub(l.avgPrice)
		if side == fx.SideBuy {
			perUnit = l.avgPrice.Sub(dPrice)
		}
		l.realized = l.realized.Add(closed.Mul(perUnit).Mul(notional))
	}

	newAmount := l.amount.Add(tradeAmount)
	switch {
	case newAmount.IsZero():
		l.avgPrice = decimal.Zero
	case l.amount.IsZero() || newAmount.Sign() == l.amount.Sign():
		// Same-direction (or fresh) exposure: blend by notional weight.
		totalCost := l.amount.Mul(l.avgPrice).Add(tradeAmount.Mul(dPrice))
		l.avgPrice = totalCost.Div(newAmount)
	default:
		// Position flipped through zero: basis restarts at the trade.
		l.avgPrice = dPrice
	}
	l.amount = newAmount

	l.trades = append(l.trades, trade)
	return trade
}

// Position returns a copy of the current exposure.
func (l *Ledger) Position() Position {
	avg := 0.0
	if !l.amount.IsZero() {
		avg, _ = l.avgPrice.Float64()
	}
	amt, _ := l.amount.Float64()
	return Position{Amount: amt, AveragePrice: avg, Currency: "EUR"}
}

// PnL values the position against the given mid.
func (l *Ledger) PnL(mid float64) PnL {
	unrealized := decimal.Zero
	if !l.amount.IsZero() {
		perUnit := decimal.NewFromFloat(mid).Sub(l.avgPrice)
		unrealized = l.amount.Mul(perUnit).Mul(notional)
	}
	r, _ := l.realized.Float64()
	u, _ := unrealized.Float64()
	total, _ := l.realized.Add(unrealized).Float64()
	return PnL{Realized: r, Unrealized: u, Total: total}
}

// Trades returns a copy of the trade log in execution order.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Exposure returns the signed notional exposure in quote terms,
// for display.
func (l *Ledger) Exposure() float64 {
	amt, _ := l.amount.Float64()
	return math.Abs(amt) * fx.NotionalPerUnit
}

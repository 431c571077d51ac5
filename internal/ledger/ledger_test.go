package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRoundTripRealizesPnL(t *testing.T) {
	l := New()
	now := time.Now()

	l.Execute(now, fx.SideBuy, 10, 1.0850, "Market", "", TradeHedge)
	l.Execute(now, fx.SideSell, 10, 1.0860, "Market", "", TradeHedge)

	pos := l.Position()
	if pos.Amount != 0 {
		t.Errorf("expected flat position, got %v", pos.Amount)
	}
	if pos.AveragePrice != 0 {
		t.Errorf("flat position must report zero average price, got %v", pos.AveragePrice)
	}

	pnl := l.PnL(1.0855)
	want := 10 * (1.0860 - 1.0850) * 1_000_000
	if !almostEqual(pnl.Realized, want) {
		t.Errorf("realized = %v, want %v", pnl.Realized, want)
	}
	if pnl.Unrealized != 0 {
		t.Errorf("flat position has unrealized %v", pnl.Unrealized)
	}
}

func TestHedgeBuyScenario(t *testing.T) {
	l := New()
	now := time.Now()

	l.Execute(now, fx.SideBuy, 10, 1.0852, "Market", "", TradeHedge)

	pos := l.Position()
	if pos.Amount != 10 {
		t.Errorf("amount = %v, want 10", pos.Amount)
	}
	if pos.AveragePrice != 1.0852 {
		t.Errorf("average price = %v, want 1.0852", pos.AveragePrice)
	}

	pnl := l.PnL(1.0860)
	if !almostEqual(pnl.Unrealized, 8000) {
		t.Errorf("unrealized at 1.0860 = %v, want 8000", pnl.Unrealized)
	}
	if !almostEqual(pnl.Total, 8000) {
		t.Errorf("total = %v, want 8000", pnl.Total)
	}
}

func TestAveragePriceBlending(t *testing.T) {
	l := New()
	now := time.Now()

	l.Execute(now, fx.SideBuy, 10, 1.0800, "Market", "", TradeHedge)
	l.Execute(now, fx.SideBuy, 10, 1.0900, "Market", "", TradeHedge)

	pos := l.Position()
	if pos.Amount != 20 {
		t.Errorf("amount = %v, want 20", pos.Amount)
	}
	if !almostEqual(pos.AveragePrice, 1.0850) {
		t.Errorf("average price = %v, want 1.0850", pos.AveragePrice)
	}
}

func TestPositionFlipResetsAverage(t *testing.T) {
	l := New()
	now := time.Now()

	l.Execute(now, fx.SideBuy, 5, 1.0800, "Market", "", TradeHedge)
	l.Execute(now, fx.SideSell, 15, 1.0820, "Market", "", TradeHedge)

	pos := l.Position()
	if pos.Amount != -10 {
		t.Errorf("amount = %v, want -10", pos.Amount)
	}
	if pos.AveragePrice != 1.0820 {
		t.Errorf("flipped basis = %v, want trade price 1.0820", pos.AveragePrice)
	}

	// The 5M overlap realized at 20 pips.
	pnl := l.PnL(1.0820)
	want := 5 * (1.0820 - 1.0800) * 1_000_000
	if !almostEqual(pnl.Realized, want) {
		t.Errorf("realized = %v, want %v", pnl.Realized, want)
	}
}

func TestShortPositionPnL(t *testing.T) {
	l := New()
	now := time.Now()

	l.Execute(now, fx.SideSell, 10, 1.0850, "Market", "", TradeHedge)
	// Short profits when the market drops.
	pnl := l.PnL(1.0840)
	if !almostEqual(pnl.Unrealized, 10000) {
		t.Errorf("short unrealized = %v, want 10000", pnl.Unrealized)
	}
	// Buy back half above entry: realize a loss.
	l.Execute(now, fx.SideBuy, 5, 1.0860, "Client A", "client-a", TradeVoice)
	pnl = l.PnL(1.0860)
	want := 5 * (1.0850 - 1.0860) * 1_000_000
	if !almostEqual(pnl.Realized, want) {
		t.Errorf("realized = %v, want %v", pnl.Realized, want)
	}
}

func TestTradeLogImmutableAppend(t *testing.T) {
	l := New()
	now := time.Now()

	first := l.Execute(now, fx.SideBuy, 1, 1.0850, "Market", "", TradeHedge)
	l.Execute(now.Add(time.Second), fx.SideSell, 2, 1.0851, "MacroHard Corp", "macrohard", TradeElectronic)

	trades := l.Trades()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].ID != first.ID {
		t.Error("trade log not in execution order")
	}
	if trades[0].ID == trades[1].ID {
		t.Error("trade IDs must be unique")
	}

	// Mutating the returned slice must not touch the log.
	trades[0].Size = 999
	if l.Trades()[0].Size != 1 {
		t.Error("Trades() must return a copy")
	}
}

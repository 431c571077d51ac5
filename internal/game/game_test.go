package game

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/news"
	"github.com/voxline/dealerdesk/internal/rfq"
)

func newTestGame() (*Game, time.Time) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	g := New(cfg, nil)
	now := time.Unix(1_700_000_000, 0)
	g.initState(now)
	return g, now
}

// exec drives one command through the loop-side processor directly.
func exec(t *testing.T, g *Game, cmd command) response {
	t.Helper()
	respCh := make(chan response, 1)
	cmd.respCh = respCh
	g.processCommand(cmd)
	select {
	case resp := <-respCh:
		return resp
	default:
		t.Fatal("command produced no response")
		return response{}
	}
}

func TestTaskQueueRunsInOrder(t *testing.T) {
	q := newTaskQueue()
	now := time.Unix(1_700_000_000, 0)

	var order []int
	q.schedule(now.Add(3*time.Second), func(time.Time) { order = append(order, 3) })
	q.schedule(now.Add(time.Second), func(time.Time) { order = append(order, 1) })
	q.schedule(now.Add(2*time.Second), func(time.Time) { order = append(order, 2) })
	q.schedule(now.Add(time.Hour), func(time.Time) { order = append(order, 99) })

	q.runDue(now.Add(5 * time.Second))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("execution order = %v, want [1 2 3]", order)
	}
	if q.Len() != 1 {
		t.Errorf("remaining tasks = %d, want 1", q.Len())
	}
}

func TestTaskQueueTieBreaksByScheduleOrder(t *testing.T) {
	q := newTaskQueue()
	at := time.Unix(1_700_000_000, 0)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.schedule(at, func(time.Time) { order = append(order, i) })
	}
	q.runDue(at)

	for i, got := range order {
		if got != i {
			t.Fatalf("execution order = %v, want ascending", order)
		}
	}
}

func TestGameClock(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	c := gameClock{start: start, startMinute: 7 * 60, interval: time.Second}

	if got := c.minute(start); got != 420 {
		t.Errorf("minute at start = %d, want 420", got)
	}
	if got := c.minute(start.Add(90 * time.Second)); got != 510 {
		t.Errorf("minute after 90s = %d, want 510", got)
	}
	if got := formatMinute(420); got != "07:00" {
		t.Errorf("formatMinute(420) = %q, want 07:00", got)
	}
	if got := formatMinute(25 * 60); got != "01:00" {
		t.Errorf("formatMinute past midnight = %q, want 01:00", got)
	}
}

func TestEPricesSkewAndFloor(t *testing.T) {
	g, _ := newTestGame()
	mid := g.market.Mid()

	base := g.ePrices()
	for _, tier := range fx.Tiers {
		q := base[tier]
		if q.Bid >= q.Ask {
			t.Fatalf("tier %v inverted quote %+v", tier, q)
		}
		gotMid := (q.Bid + q.Ask) / 2
		if math.Abs(gotMid-mid) > 1e-9 {
			t.Errorf("tier %v centered at %v, want %v", tier, gotMid, mid)
		}
	}

	g.ePricing = EPricing{SkewPips: 2}
	skewed := g.ePrices()
	for _, tier := range fx.Tiers {
		wantShift := fx.PriceDelta(2)
		if diff := skewed[tier].Bid - base[tier].Bid; math.Abs(diff-wantShift) > 1e-9 {
			t.Errorf("tier %v bid shifted by %v, want %v", tier, diff, wantShift)
		}
	}

	g.ePricing = EPricing{MinSpreadPips: 10}
	floored := g.ePrices()
	for _, tier := range fx.Tiers {
		width := fx.Pips(floored[tier].Ask - floored[tier].Bid)
		if width < 10-1e-9 {
			t.Errorf("tier %v width %v pips below the 10 pip floor", tier, width)
		}
	}
}

func TestNewsEffectScheduling(t *testing.T) {
	g, now := newTestGame()
	mid0 := g.market.Mid()

	ev := news.Event{Effect: news.Effect{
		ShockPips:       10,
		DriftPips:       5,
		DriftMinutes:    5,
		VolatilityBoost: 1,
	}}
	g.applyNewsEffect(now, ev)

	if got := g.spread.VolatilityFactor(); got != 1 {
		t.Fatalf("volatility factor = %v, want 1 immediately", got)
	}

	// The shock waits out the reaction delay.
	g.tasks.runDue(now.Add(g.cfg.ShockDelay - time.Millisecond))
	if g.market.Mid() != mid0 {
		t.Fatal("shock landed before its delay")
	}
	g.tasks.runDue(now.Add(g.cfg.ShockDelay))
	if got, want := g.market.Mid(), mid0+fx.PriceDelta(10); math.Abs(got-want) > 1e-12 {
		t.Errorf("mid after shock = %v, want %v", got, want)
	}

	// Full drift and volatility decay after enough game minutes.
	g.tasks.runDue(now.Add(20 * g.cfg.MinuteInterval))
	if got, want := g.market.Mid(), mid0+fx.PriceDelta(15); math.Abs(got-want) > 1e-12 {
		t.Errorf("mid after drift = %v, want %v", got, want)
	}
	if got := g.spread.VolatilityFactor(); got > 1e-9 {
		t.Errorf("volatility factor decayed to %v, want ~0", got)
	}
	if g.tasks.Len() != 0 {
		t.Errorf("%d tasks left over", g.tasks.Len())
	}
}

func TestHedgeCommand(t *testing.T) {
	g, _ := newTestGame()

	// No price given: fill at the market's own ask.
	resp := exec(t, g, command{typ: cmdHedge, side: fx.SideBuy, size: 10})
	if resp.err != nil {
		t.Fatalf("hedge failed: %v", resp.err)
	}
	if resp.trade.Price != g.lastPrice.Ask {
		t.Errorf("buy hedge at %v, want ask %v", resp.trade.Price, g.lastPrice.Ask)
	}
	if pos := g.book.Position(); pos.Amount != 10 {
		t.Errorf("position = %v, want 10", pos.Amount)
	}

	resp = exec(t, g, command{typ: cmdHedge, side: fx.SideSell, size: 0})
	if resp.err != ErrInvalidSize {
		t.Errorf("zero-size hedge error = %v, want ErrInvalidSize", resp.err)
	}
}

func TestHedgeCommandAtPrice(t *testing.T) {
	g, _ := newTestGame()

	// The price carried on the command is the fill price.
	resp := exec(t, g, command{typ: cmdHedge, side: fx.SideBuy, size: 10, price: 1.0852})
	if resp.err != nil {
		t.Fatalf("hedge failed: %v", resp.err)
	}
	if resp.trade.Price != 1.0852 {
		t.Errorf("hedge filled at %v, want 1.0852", resp.trade.Price)
	}
	if pos := g.book.Position(); pos.Amount != 10 || pos.AveragePrice != 1.0852 {
		t.Errorf("position = %+v, want 10 at 1.0852", pos)
	}

	resp = exec(t, g, command{typ: cmdHedge, side: fx.SideBuy, size: 1, price: -1})
	if resp.err != ErrInvalidPrice {
		t.Errorf("negative price error = %v, want ErrInvalidPrice", resp.err)
	}
}

func TestTwapLifecycle(t *testing.T) {
	g, now := newTestGame()

	resp := exec(t, g, command{typ: cmdStartTwap, side: fx.SideBuy, size: 12})
	if resp.err != nil {
		t.Fatalf("start twap failed: %v", resp.err)
	}
	if resp = exec(t, g, command{typ: cmdStartTwap, side: fx.SideBuy, size: 5}); resp.err != ErrTwapActive {
		t.Errorf("second twap error = %v, want ErrTwapActive", resp.err)
	}

	g.onTwapTick(now) // 5
	g.onTwapTick(now) // 5
	if !g.twap.Active || g.twap.Remaining != 2 {
		t.Fatalf("after two slices: %+v, want 2 remaining", g.twap)
	}
	g.onTwapTick(now) // final 2
	if g.twap.Active {
		t.Error("twap still active after completion")
	}
	if pos := g.book.Position(); pos.Amount != 12 {
		t.Errorf("position = %v, want full 12", pos.Amount)
	}

	if resp = exec(t, g, command{typ: cmdStopTwap}); resp.err != ErrNoTwapActive {
		t.Errorf("stop without twap error = %v, want ErrNoTwapActive", resp.err)
	}
}

func TestTwapSliceSizeAndPricing(t *testing.T) {
	g, now := newTestGame()

	// Player-chosen slice size overrides the default.
	resp := exec(t, g, command{typ: cmdStartTwap, side: fx.SideSell, size: 20, slice: 8})
	if resp.err != nil {
		t.Fatalf("start twap failed: %v", resp.err)
	}
	if g.twap.SliceSize != 8 {
		t.Fatalf("slice size = %v, want 8", g.twap.SliceSize)
	}

	// Each slice fills at the tier price for the slice size, not the
	// single market spread.
	g.onTwapTick(now)
	trades := g.book.Trades()
	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	want := g.lastPrice.Mid - g.tierSpreads[fx.TierForSize(8)]/2
	if got := trades[0].Price; math.Abs(got-want) > 1e-12 {
		t.Errorf("slice filled at %v, want tier price %v", got, want)
	}

	if resp = exec(t, g, command{typ: cmdStopTwap}); resp.err != nil {
		t.Fatalf("stop twap failed: %v", resp.err)
	}
	if resp = exec(t, g, command{typ: cmdStartTwap, side: fx.SideSell, size: 20, slice: -1}); resp.err != ErrInvalidSize {
		t.Errorf("negative slice error = %v, want ErrInvalidSize", resp.err)
	}
}

func TestChatCommands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Voice.MinInterval = time.Millisecond
	cfg.Voice.MaxInterval = 2 * time.Millisecond
	g := New(cfg, nil)
	now := time.Unix(1_700_000_000, 0)
	g.initState(now)

	if err := g.handleChat(now, "52"); err != ErrNoVoiceRfq {
		t.Errorf("quote with no request error = %v, want ErrNoVoiceRfq", err)
	}
	if err := g.handleChat(now, "what's up"); err != ErrInvalidInput {
		t.Errorf("gibberish error = %v, want ErrInvalidInput", err)
	}

	// Force a voice request in.
	for i := 0; i < 100; i++ {
		now = now.Add(time.Millisecond)
		g.onVoiceTick(now)
		if _, ok := g.voice.ActiveRfq(); ok {
			break
		}
	}
	active, ok := g.voice.ActiveRfq()
	if !ok {
		t.Fatal("no voice request generated")
	}

	mid := g.market.Mid()
	wide := mid - fx.PriceDelta(31)
	if active.Side == fx.SideBuy {
		wide = mid + fx.PriceDelta(31)
	}
	if err := g.handleChat(now, fmt.Sprintf("%.4f", wide)); err != ErrQuoteTooWide {
		t.Errorf("wide quote error = %v, want ErrQuoteTooWide", err)
	}

	if err := g.handleChat(now, fmt.Sprintf("%.4f", mid)); err != nil {
		t.Errorf("at-market quote failed: %v", err)
	}
	if cur, _ := g.voice.ActiveRfq(); cur.Status != rfq.VoiceQuoted {
		t.Errorf("status after quote = %v, want quoted", cur.Status)
	}

	if err := g.handleChat(now, "ref"); err != nil {
		t.Errorf("call-off failed: %v", err)
	}
}

func TestRestartResetsSession(t *testing.T) {
	g, now := newTestGame()

	exec(t, g, command{typ: cmdHedge, side: fx.SideBuy, size: 10})
	g.history = append(g.history, PricePoint{Time: now, Mid: 1.0851})

	exec(t, g, command{typ: cmdRestart})

	if pos := g.book.Position(); pos.Amount != 0 {
		t.Errorf("position after restart = %v, want flat", pos.Amount)
	}
	if len(g.book.Trades()) != 0 {
		t.Error("trade log survived restart")
	}
	if len(g.history) != 1 {
		t.Errorf("price history length = %d, want fresh", len(g.history))
	}
	if g.twap.Active {
		t.Error("twap survived restart")
	}
}

func TestRestartAppliesNewSettings(t *testing.T) {
	g, _ := newTestGame()

	var s Settings
	s.Game.Seed = 99
	s.Market.InitialMid = 1.2000
	s.Market.BaseSpread = 0.0002
	s.Impact.HalfLifeMs = 3000
	s.News.ChancePerMinute = 0.5
	cfg := s.ToConfig()

	exec(t, g, command{typ: cmdRestart, cfg: &cfg})

	if g.cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99", g.cfg.Seed)
	}
	if got := g.market.Mid(); got != 1.2000 {
		t.Errorf("mid after restart = %v, want 1.2", got)
	}
	if got := g.market.Spread(); got != 0.0002 {
		t.Errorf("spread after restart = %v, want 0.0002", got)
	}
	if g.cfg.Market.Impact.HalfLife != 3*time.Second {
		t.Errorf("impact half-life = %v, want 3s", g.cfg.Market.Impact.HalfLife)
	}
	if g.cfg.News.NewsChancePerMinute != 0.5 {
		t.Errorf("news chance = %v, want 0.5", g.cfg.News.NewsChancePerMinute)
	}

	// A restart without settings keeps the last configuration.
	exec(t, g, command{typ: cmdRestart})
	if got := g.market.Mid(); got != 1.2000 {
		t.Errorf("mid after plain restart = %v, want 1.2", got)
	}
}

func TestSnapshotPublishing(t *testing.T) {
	g, now := newTestGame()
	g.publish(now)

	snap := g.Snapshot()
	if snap.Clock != "07:00" {
		t.Errorf("clock = %q, want 07:00", snap.Clock)
	}
	if snap.Mid <= 0 || snap.Bid >= snap.Ask {
		t.Errorf("bad price snapshot %+v", snap)
	}
	if len(snap.TierPrices) != len(fx.Tiers) {
		t.Errorf("tier prices = %d entries, want %d", len(snap.TierPrices), len(fx.Tiers))
	}
	if !snap.HasUpcomingRelease {
		t.Error("no upcoming release in snapshot")
	}

	// Mutating a snapshot copy must not leak into the next one.
	snap.TierPrices[fx.Tier1M] = fx.Quote{}
	again := g.Snapshot()
	if again.TierPrices[fx.Tier1M] == (fx.Quote{}) {
		t.Error("snapshot copies share the tier price map")
	}
}

func TestLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.PriceInterval = 5 * time.Millisecond
	g := New(cfg, nil)
	g.Start()
	defer g.Close()

	if !g.IsRunning() {
		t.Fatal("game not running after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	trade, err := g.ExecuteHedge(ctx, fx.SideBuy, 5, 0)
	if err != nil {
		t.Fatalf("hedge via command channel failed: %v", err)
	}
	if trade.Size != 5 || trade.Side != fx.SideBuy {
		t.Errorf("trade = %+v, want 5m buy", trade)
	}

	snap := g.Snapshot()
	if snap.Position.Amount != 5 {
		t.Errorf("snapshot position = %v, want 5", snap.Position.Amount)
	}

	g.Close()
	if g.IsRunning() {
		t.Error("game still running after Close")
	}
	if _, err := g.ExecuteHedge(ctx, fx.SideBuy, 1, 0); err != ErrNotRunning {
		t.Errorf("hedge after close error = %v, want ErrNotRunning", err)
	}

	// A closed game cannot be restarted.
	g.Start()
	if g.IsRunning() {
		t.Error("Start revived a closed game")
	}
	if _, err := g.ExecuteHedge(ctx, fx.SideBuy, 1, 0); err != ErrNotRunning {
		t.Errorf("hedge after re-Start error = %v, want ErrNotRunning", err)
	}
}

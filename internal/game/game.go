// Package game wires the simulation engines together and runs them on
// a single loop goroutine. Engines stay free of time and concurrency;
// the loop owns them, ticks them on their cadences, executes player
// commands between ticks, and publishes read-only snapshots for the
// UI. Scheduled effects (news shocks, drift slices, volatility decay)
// live on a task heap owned by the same loop, so stopping the game
// cancels them all.
package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/ledger"
	"github.com/voxline/dealerdesk/internal/market"
	"github.com/voxline/dealerdesk/internal/news"
	"github.com/voxline/dealerdesk/internal/rfq"
	"github.com/voxline/dealerdesk/internal/spread"
)

var (
	ErrNotRunning   = errors.New("game is not running")
	ErrInvalidSize  = errors.New("size must be positive")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrNoVoiceRfq   = errors.New("no active voice request")
	ErrInvalidInput = errors.New("unrecognized input")
	ErrQuoteTooWide = errors.New("quote too far from market")
	ErrRfqNotActive = errors.New("request is no longer quoting")
	ErrTwapActive   = errors.New("a TWAP order is already running")
	ErrNoTwapActive = errors.New("no TWAP order is running")
)

type cmdType int

const (
	cmdHedge cmdType = iota
	cmdChat
	cmdStartTwap
	cmdStopTwap
	cmdRejectElectronic
	cmdSetEPricing
	cmdRestart
)

type command struct {
	typ      cmdType
	side     fx.Side
	size     float64
	price    float64
	slice    float64
	text     string
	id       string
	ePricing EPricing
	cfg      *Config
	respCh   chan<- response
}

type response struct {
	trade ledger.Trade
	err   error
}

// Game owns all simulation subsystems and manages their lifecycle.
type Game struct {
	cfg Config
	log *slog.Logger

	view  *stateView
	cmdCh chan command

	running   atomic.Bool
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// Everything below is owned by the run loop goroutine.
	rng        *rand.Rand
	market     *market.Engine
	spread     *spread.Engine
	news       *news.Engine
	voice      *rfq.VoiceEngine
	electronic *rfq.ElectronicEngine
	book       *ledger.Ledger
	tasks      *taskQueue

	clock       gameClock
	lastMinute  int
	session     spread.Session
	tierSpreads spread.TierSpreads
	lastPrice   market.Price
	history     []PricePoint
	ePricing    EPricing
	twap        TwapStatus
}

// New creates a Game with the given configuration. Call Start to run
// it. A nil logger discards all log output.
func New(cfg Config, log *slog.Logger) *Game {
	def := DefaultConfig()
	if cfg.PriceInterval <= 0 {
		cfg.PriceInterval = def.PriceInterval
	}
	if cfg.SpreadInterval <= 0 {
		cfg.SpreadInterval = def.SpreadInterval
	}
	if cfg.VoiceInterval <= 0 {
		cfg.VoiceInterval = def.VoiceInterval
	}
	if cfg.ElectronicInterval <= 0 {
		cfg.ElectronicInterval = def.ElectronicInterval
	}
	if cfg.TwapSliceInterval <= 0 {
		cfg.TwapSliceInterval = def.TwapSliceInterval
	}
	if cfg.MinuteInterval <= 0 {
		cfg.MinuteInterval = def.MinuteInterval
	}
	if cfg.PriceHistorySize <= 0 {
		cfg.PriceHistorySize = def.PriceHistorySize
	}
	if cfg.TwapSliceSize <= 0 {
		cfg.TwapSliceSize = def.TwapSliceSize
	}
	if cfg.ShockDelay <= 0 {
		cfg.ShockDelay = def.ShockDelay
	}
	if cfg.VolBoostDecayMinutes <= 0 {
		cfg.VolBoostDecayMinutes = def.VolBoostDecayMinutes
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = def.CommandBuffer
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Game{
		cfg:    cfg,
		log:    log,
		view:   newStateView(),
		cmdCh:  make(chan command, cfg.CommandBuffer),
		closed: make(chan struct{}),
	}
}

// Start launches the run loop. Starting twice is a no-op, and so is
// starting after Close: a closed Game cannot be reused.
func (g *Game) Start() {
	select {
	case <-g.closed:
		return
	default:
	}
	if !g.running.CompareAndSwap(false, true) {
		return
	}
	g.initState(time.Now())
	g.publish(time.Now())

	g.wg.Add(1)
	go g.run()
}

// IsRunning reports whether the run loop is live.
func (g *Game) IsRunning() bool {
	return g.running.Load()
}

// Close shuts the run loop down and cancels all scheduled effects.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.closed)
	})
	g.wg.Wait()
	g.running.Store(false)
}

// Snapshot returns a copy of the latest published state.
func (g *Game) Snapshot() Snapshot {
	return g.view.Snapshot()
}

// initState builds fresh engines off a single seeded random source.
// Also used by restart, where it discards the session in progress.
func (g *Game) initState(now time.Time) {
	seed := g.cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.market = market.NewEngine(g.cfg.Market, g.rng)
	g.spread = spread.NewEngine(g.cfg.Spread, g.rng)
	g.news = news.NewEngine(g.cfg.News, g.rng, g.cfg.StartMinute)
	g.voice = rfq.NewVoiceEngine(g.cfg.Voice, g.rng, now)
	g.electronic = rfq.NewElectronicEngine(g.cfg.Electronic, g.rng, now)
	g.book = ledger.New()
	g.tasks = newTaskQueue()

	g.clock = gameClock{start: now, startMinute: g.cfg.StartMinute, interval: g.cfg.MinuteInterval}
	g.lastMinute = g.cfg.StartMinute
	g.session = spread.SessionForHour(hourOfMinute(g.lastMinute))
	g.spread.SetSessionMultiplier(g.session.Multiplier)
	g.tierSpreads = g.spread.Tick()

	mid := g.market.Mid()
	half := g.market.Spread() / 2
	g.lastPrice = market.Price{Mid: mid, Bid: mid - half, Ask: mid + half, Spread: g.market.Spread(), Time: now}
	g.history = []PricePoint{{Time: now, Mid: mid}}
	g.ePricing = EPricing{}
	g.twap = TwapStatus{}

	g.log.Info("session initialized", "seed", seed, "start", formatMinute(g.lastMinute))
}

func (g *Game) run() {
	defer g.wg.Done()

	priceT := time.NewTicker(g.cfg.PriceInterval)
	defer priceT.Stop()
	spreadT := time.NewTicker(g.cfg.SpreadInterval)
	defer spreadT.Stop()
	voiceT := time.NewTicker(g.cfg.VoiceInterval)
	defer voiceT.Stop()
	electronicT := time.NewTicker(g.cfg.ElectronicInterval)
	defer electronicT.Stop()
	twapT := time.NewTicker(g.cfg.TwapSliceInterval)
	defer twapT.Stop()
	clockT := time.NewTicker(g.cfg.MinuteInterval)
	defer clockT.Stop()

	for {
		select {
		case <-g.closed:
			return
		case now := <-priceT.C:
			g.onPriceTick(now)
		case now := <-spreadT.C:
			g.onSpreadTick(now)
		case now := <-voiceT.C:
			g.onVoiceTick(now)
		case now := <-electronicT.C:
			g.onElectronicTick(now)
		case now := <-twapT.C:
			g.onTwapTick(now)
		case now := <-clockT.C:
			g.onClockTick(now)
		case cmd := <-g.cmdCh:
			g.processCommand(cmd)
		}
	}
}

func (g *Game) onPriceTick(now time.Time) {
	g.tasks.runDue(now)

	g.lastPrice = g.market.Tick(now)
	g.history = append(g.history, PricePoint{Time: now, Mid: g.lastPrice.Mid})
	if len(g.history) > g.cfg.PriceHistorySize {
		g.history = g.history[len(g.history)-g.cfg.PriceHistorySize:]
	}
	g.publish(now)
}

func (g *Game) onSpreadTick(now time.Time) {
	g.tierSpreads = g.spread.Tick()
	g.publish(now)
}

func (g *Game) onVoiceTick(now time.Time) {
	res := g.voice.Tick(now, g.market.Mid(), g.spread.VolatilityFactor())
	for _, r := range res.Completed {
		if r.Status != rfq.VoiceDone {
			g.log.Info("voice request closed", "id", r.ID, "status", string(r.Status), "client", r.Client.ID)
			continue
		}
		g.bookClientTrade(now, r.Side, r.Size, r.PlayerQuote, r.Client, r.BanksAsked, ledger.TradeVoice)
	}
	g.publish(now)
}

func (g *Game) onElectronicTick(now time.Time) {
	res := g.electronic.Tick(now, g.ePrices())
	for _, r := range res.Traded {
		g.bookClientTrade(now, r.Side, r.Size, r.TradedPrice, r.Client, r.BanksAsked, ledger.TradeElectronic)
	}
	g.electronic.Cleanup(now)
	if len(res.New) > 0 || len(res.Traded) > 0 || len(res.Expired) > 0 {
		g.publish(now)
	}
}

func (g *Game) onTwapTick(now time.Time) {
	if !g.twap.Active {
		return
	}
	size := g.twap.SliceSize
	if size > g.twap.Remaining {
		size = g.twap.Remaining
	}
	g.executeHedge(now, g.twap.Side, size, g.tierHedgePrice(g.twap.Side, size), "TWAP", ledger.TradeAlgo)
	g.twap.Remaining -= size
	if g.twap.Remaining <= 0 {
		g.twap = TwapStatus{}
		g.log.Info("twap complete")
	}
	g.publish(now)
}

func (g *Game) onClockTick(now time.Time) {
	minute := g.clock.minute(now)
	for m := g.lastMinute + 1; m <= minute; m++ {
		for _, ev := range g.news.Tick(m) {
			g.applyNewsEffect(now, ev)
		}
	}
	g.lastMinute = minute

	if s := spread.SessionForHour(hourOfMinute(minute)); s.Code != g.session.Code {
		g.session = s
		g.spread.SetSessionMultiplier(s.Multiplier)
		g.log.Info("session change", "session", string(s.Code), "multiplier", s.Multiplier)
	}
	g.publish(now)
}

// applyNewsEffect schedules the market reaction a fired event asks
// for. The shock lands after a short human-reaction delay; drift is
// spread across the following game minutes; the volatility boost is
// applied now and decays linearly back down.
func (g *Game) applyNewsEffect(now time.Time, ev news.Event) {
	eff := ev.Effect

	if eff.ShockPips != 0 {
		delta := fx.PriceDelta(eff.ShockPips)
		g.tasks.schedule(now.Add(g.cfg.ShockDelay), func(time.Time) {
			g.market.ApplyShock(delta)
		})
	}

	if eff.DriftPips != 0 && eff.DriftMinutes > 0 {
		slice := fx.PriceDelta(eff.DriftPips) / float64(eff.DriftMinutes)
		for i := 1; i <= eff.DriftMinutes; i++ {
			g.tasks.schedule(now.Add(time.Duration(i)*g.cfg.MinuteInterval), func(time.Time) {
				g.market.ApplyShock(slice)
			})
		}
	}

	if eff.VolatilityBoost > 0 {
		g.spread.SetVolatilityFactor(g.spread.VolatilityFactor() + eff.VolatilityBoost)
		step := eff.VolatilityBoost / float64(g.cfg.VolBoostDecayMinutes)
		for i := 1; i <= g.cfg.VolBoostDecayMinutes; i++ {
			g.tasks.schedule(now.Add(time.Duration(i)*g.cfg.MinuteInterval), func(time.Time) {
				g.spread.SetVolatilityFactor(g.spread.VolatilityFactor() - step)
			})
		}
	}

	g.log.Info("news fired",
		"kind", string(ev.Item.Kind),
		"headline", ev.Item.Headline,
		"direction", string(ev.Item.Direction),
		"impact_pips", ev.Item.ImpactPips)
}

// bookClientTrade records a client fill: the dealer takes the other
// side, and the street sees the client's flow.
func (g *Game) bookClientTrade(now time.Time, clientSide fx.Side, size, price float64, client *rfq.Client, banksAsked int, kind ledger.TradeKind) {
	trade := g.book.Execute(now, clientSide.Opposite(), size, price, client.Name, client.ID, kind)
	g.market.RecordImpact(now, market.Impact{Size: size, Side: clientSide, BanksAsked: banksAsked})
	g.log.Info("client trade",
		"kind", string(kind),
		"client", client.ID,
		"side", trade.Side.String(),
		"size", size,
		"price", price)
}

// executeHedge books a hedge at the given price and moves the market.
// A zero price fills at the market's own bid or ask.
func (g *Game) executeHedge(now time.Time, side fx.Side, size, price float64, counterparty string, kind ledger.TradeKind) ledger.Trade {
	if price <= 0 {
		price = g.lastPrice.Bid
		if side == fx.SideBuy {
			price = g.lastPrice.Ask
		}
	}
	trade := g.book.Execute(now, side, size, price, counterparty, "", kind)
	g.market.RecordImpact(now, market.Impact{Size: size, Side: side, BanksAsked: 0})
	g.log.Info("hedge trade", "kind", string(kind), "side", side.String(), "size", size, "price", price)
	return trade
}

// tierHedgePrice is the dealable street price for a hedge of the given
// size: mid shifted by half the spread of the size's tier.
func (g *Game) tierHedgePrice(side fx.Side, size float64) float64 {
	half := g.tierSpreads[fx.TierForSize(size)] / 2
	if side == fx.SideBuy {
		return g.lastPrice.Mid + half
	}
	return g.lastPrice.Mid - half
}

// ePrices builds the electronic tier quotes: the tier spread floored
// by the player's minimum, centered on mid, shifted by the skew.
func (g *Game) ePrices() fx.TierQuotes {
	mid := g.market.Mid()
	skew := fx.PriceDelta(g.ePricing.SkewPips)
	minSpread := fx.PriceDelta(g.ePricing.MinSpreadPips)

	out := make(fx.TierQuotes, len(fx.Tiers))
	for _, t := range fx.Tiers {
		sp := g.tierSpreads[t]
		if sp < minSpread {
			sp = minSpread
		}
		half := sp / 2
		out[t] = fx.Quote{Bid: mid - half + skew, Ask: mid + half + skew}
	}
	return out
}

func (g *Game) processCommand(cmd command) {
	now := time.Now()
	var resp response

	switch cmd.typ {
	case cmdHedge:
		switch {
		case cmd.size <= 0:
			resp.err = ErrInvalidSize
		case cmd.price < 0:
			resp.err = ErrInvalidPrice
		default:
			resp.trade = g.executeHedge(now, cmd.side, cmd.size, cmd.price, "Interbank", ledger.TradeHedge)
		}

	case cmdChat:
		resp.err = g.handleChat(now, cmd.text)

	case cmdStartTwap:
		switch {
		case g.twap.Active:
			resp.err = ErrTwapActive
		case cmd.size <= 0:
			resp.err = ErrInvalidSize
		case cmd.slice < 0:
			resp.err = ErrInvalidSize
		default:
			slice := cmd.slice
			if slice == 0 {
				slice = g.cfg.TwapSliceSize
			}
			if slice > cmd.size {
				slice = cmd.size
			}
			g.twap = TwapStatus{
				Active:    true,
				Side:      cmd.side,
				Total:     cmd.size,
				Remaining: cmd.size,
				SliceSize: slice,
			}
			g.log.Info("twap started", "side", cmd.side.String(), "total", cmd.size, "slice", slice)
		}

	case cmdStopTwap:
		if !g.twap.Active {
			resp.err = ErrNoTwapActive
		} else {
			g.log.Info("twap stopped", "remaining", g.twap.Remaining)
			g.twap = TwapStatus{}
		}

	case cmdRejectElectronic:
		if !g.electronic.Reject(now, cmd.id) {
			resp.err = ErrRfqNotActive
		}

	case cmdSetEPricing:
		g.ePricing = cmd.ePricing
		g.log.Info("e-pricing updated", "skew_pips", cmd.ePricing.SkewPips, "min_spread_pips", cmd.ePricing.MinSpreadPips)

	case cmdRestart:
		if cmd.cfg != nil {
			g.cfg = *cmd.cfg
		}
		g.initState(now)
	}

	g.publish(now)
	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

// handleChat routes a raw player chat line: call-off keywords, or a
// quote in any accepted shorthand, against the active voice request.
func (g *Game) handleChat(now time.Time, text string) error {
	mid := g.market.Mid()
	parsed := rfq.ParseInput(text, mid)

	active, ok := g.voice.ActiveRfq()

	switch parsed.Kind {
	case rfq.InputCallOff:
		if !ok {
			return ErrNoVoiceRfq
		}
		g.voice.RecordPlayerLine(now, text, active.ID)
		if _, done := g.voice.CallOff(now, active.ID); !done {
			return ErrRfqNotActive
		}
		return nil

	case rfq.InputQuote:
		if !ok {
			return ErrNoVoiceRfq
		}
		// Same signed check the client applies later; refusing up front
		// gives the player a chance to re-quote.
		spreadPips := fx.Pips(mid - parsed.Price)
		if active.Side == fx.SideBuy {
			spreadPips = fx.Pips(parsed.Price - mid)
		}
		if spreadPips > g.voice.MaxSpreadFromMarketPips() {
			return ErrQuoteTooWide
		}
		if _, done := g.voice.SubmitQuote(now, active.ID, parsed.Price); !done {
			return ErrRfqNotActive
		}
		return nil

	default:
		return ErrInvalidInput
	}
}

// publish assembles and stores the snapshot for UI polling.
func (g *Game) publish(now time.Time) {
	tierSpreadPips := make(map[fx.Tier]float64, len(g.tierSpreads))
	for t, s := range g.tierSpreads {
		tierSpreadPips[t] = fx.Pips(s)
	}

	snap := Snapshot{
		Time:       now,
		Running:    g.running.Load(),
		GameMinute: g.lastMinute,
		Clock:      formatMinute(g.lastMinute),
		Session:    g.session,

		Mid:              g.lastPrice.Mid,
		Bid:              g.lastPrice.Bid,
		Ask:              g.lastPrice.Ask,
		SpreadPips:       fx.Pips(g.lastPrice.Spread),
		ImpactPips:       g.market.DriftPips(now),
		VolatilityFactor: g.spread.VolatilityFactor(),

		TierPrices:      g.ePrices(),
		TierSpreadsPips: tierSpreadPips,
		EPricing:        g.ePricing,

		Position:    g.book.Position(),
		PnL:         g.book.PnL(g.lastPrice.Mid),
		ExposureUSD: g.book.Exposure(),
		Trades:      g.book.Trades(),
		Twap:        g.twap,

		PriceHistory: append([]PricePoint(nil), g.history...),

		Chat:           g.voice.Chat(),
		ElectronicRfqs: g.electronic.All(),
		News:           g.news.History(),
	}

	if v, ok := g.voice.ActiveRfq(); ok {
		snap.VoiceRfq = v
		snap.HasVoiceRfq = true
	}
	if r, ok := g.news.UpcomingRelease(); ok {
		snap.UpcomingRelease = r
		snap.HasUpcomingRelease = true
	}

	g.view.publish(snap)
}

// send runs one command through the loop and waits for its response.
func (g *Game) send(ctx context.Context, cmd command) (response, error) {
	if !g.running.Load() {
		return response{}, ErrNotRunning
	}

	respCh := make(chan response, 1)
	cmd.respCh = respCh

	select {
	case <-g.closed:
		return response{}, ErrNotRunning
	case <-ctx.Done():
		return response{}, ctx.Err()
	case g.cmdCh <- cmd:
	}

	select {
	case <-g.closed:
		return response{}, ErrNotRunning
	case <-ctx.Done():
		return response{}, ctx.Err()
	case resp := <-respCh:
		return resp, resp.err
	}
}

// ExecuteHedge trades size millions at the given price. A zero price
// fills at the current market bid or ask.
func (g *Game) ExecuteHedge(ctx context.Context, side fx.Side, size, price float64) (ledger.Trade, error) {
	resp, err := g.send(ctx, command{typ: cmdHedge, side: side, size: size, price: price})
	if err != nil {
		return ledger.Trade{}, err
	}
	return resp.trade, nil
}

// HandleChatInput routes a raw chat line against the active voice
// request.
func (g *Game) HandleChatInput(ctx context.Context, text string) error {
	_, err := g.send(ctx, command{typ: cmdChat, text: text})
	return err
}

// StartTwap begins slicing a hedge of total millions over time, with
// child trades of sizePerSlice millions. A zero sizePerSlice uses the
// configured default.
func (g *Game) StartTwap(ctx context.Context, side fx.Side, total, sizePerSlice float64) error {
	_, err := g.send(ctx, command{typ: cmdStartTwap, side: side, size: total, slice: sizePerSlice})
	return err
}

// StopTwap cancels the running TWAP order; executed slices stand.
func (g *Game) StopTwap(ctx context.Context) error {
	_, err := g.send(ctx, command{typ: cmdStopTwap})
	return err
}

// RejectElectronicRfq passes on a quoting electronic request.
func (g *Game) RejectElectronicRfq(ctx context.Context, id string) error {
	_, err := g.send(ctx, command{typ: cmdRejectElectronic, id: id})
	return err
}

// SetEPricing updates the electronic skew and minimum spread.
func (g *Game) SetEPricing(ctx context.Context, p EPricing) error {
	_, err := g.send(ctx, command{typ: cmdSetEPricing, ePricing: p})
	return err
}

// Restart abandons the session in progress and starts a fresh one.
// Non-nil settings replace the configuration first, so every engine is
// rebuilt with the new parameters.
func (g *Game) Restart(ctx context.Context, settings *Settings) error {
	var cfg *Config
	if settings != nil {
		c := settings.ToConfig()
		cfg = &c
	}
	_, err := g.send(ctx, command{typ: cmdRestart, cfg: cfg})
	return err
}

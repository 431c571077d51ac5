// Package news drives the event side of the simulation on the
// game-minute clock: scheduled economic releases (always exactly one
// queued) and random intraday headlines. Each fired event carries the
// market effect its consumers should apply. The engine is
// deterministic given its rand source and never calls the wall clock.
package news

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Direction classifies an event's effect on the pair.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// Kind distinguishes scheduled releases from random headlines.
type Kind string

const (
	KindHeadline Kind = "news"
	KindRelease  Kind = "release"
)

// ScheduledRelease is the one pending data release.
type ScheduledRelease struct {
	ID                   string
	Type                 ReleaseType
	ScheduledGameMinutes int
	Expected             float64
	Actual               float64
	Surprise             float64
	Released             bool
	Direction            Direction
}

// ReleaseData is the numeric outcome attached to a fired release.
type ReleaseData struct {
	Name     string
	Actual   float64
	Expected float64
	Unit     string
}

// Item is an immutable historical record of a fired event.
type Item struct {
	ID         string
	GameMinute int
	Headline   string
	Kind       Kind
	Direction  Direction
	ImpactPips float64 // magnitude
	Release    *ReleaseData
}

// Effect is the market reaction an event requests from its consumers:
// an immediate shock, a drift spread over the following minutes, and
// a spread-volatility boost. Pips are signed (negative = pair down).
type Effect struct {
	ShockPips       float64
	DriftPips       float64
	DriftMinutes    int
	VolatilityBoost float64
}

// Event pairs a fired item with its requested market effect.
type Event struct {
	Item   Item
	Effect Effect
}

// Engine generates releases and headlines on the game-minute clock.
type Engine struct {
	cfg Config
	rng *rand.Rand

	pending        *ScheduledRelease
	history        []Item // most recent first, capped
	lastNewsMinute int
	lastTickMinute int
}

// NewEngine creates a news engine and queues the first release after
// startMinute.
func NewEngine(cfg Config, rng *rand.Rand, startMinute int) *Engine {
	if cfg.HistorySize <= 0 {
		cfg = DefaultConfig()
	}
	e := &Engine{
		cfg:            cfg,
		rng:            rng,
		lastNewsMinute: math.MinInt32,
		lastTickMinute: -1,
	}
	e.scheduleNextRelease(startMinute)
	return e
}

// Tick processes one game minute and returns the events fired in it.
// Ticking the same minute twice is a no-op, so duplicate clock
// delivery cannot double-fire an event.
func (e *Engine) Tick(gameMinute int) []Event {
	if gameMinute == e.lastTickMinute {
		return nil
	}
	e.lastTickMinute = gameMinute

	var events []Event

	if e.cfg.ReleasesEnabled && e.pending != nil && !e.pending.Released &&
		gameMinute >= e.pending.ScheduledGameMinutes {
		events = append(events, e.fireRelease(gameMinute))
		e.scheduleNextRelease(gameMinute)
	}

	if e.cfg.NewsEnabled {
		hour := (gameMinute / 60) % 24
		marketHours := hour >= 7 && hour <= 17
		spaced := gameMinute-e.lastNewsMinute >= e.cfg.MinNewsSpacingMinutes
		if marketHours && spaced && e.rng.Float64() < e.cfg.NewsChancePerMinute {
			if ev, ok := e.fireHeadline(gameMinute); ok {
				events = append(events, ev)
			}
		}
	}

	return events
}

func (e *Engine) scheduleNextRelease(afterMinute int) {
	rt := ReleaseCatalog[e.rng.Intn(len(ReleaseCatalog))]
	delay := e.cfg.ReleaseDelayMinMinutes
	if spanMax := e.cfg.ReleaseDelayMaxMinutes; spanMax > delay {
		delay += e.rng.Intn(spanMax - delay)
	}
	expected := rt.ExpectedMin + e.rng.Float64()*(rt.ExpectedMax-rt.ExpectedMin)

	e.pending = &ScheduledRelease{
		ID:                   uuid.NewString(),
		Type:                 rt,
		ScheduledGameMinutes: afterMinute + delay,
		Expected:             roundTenth(expected),
	}
}

func (e *Engine) fireRelease(gameMinute int) Event {
	rel := e.pending
	rt := rel.Type

	surprise := rt.SurpriseMin + e.rng.Float64()*(rt.SurpriseMax-rt.SurpriseMin)
	rel.Surprise = roundTenth(surprise)
	rel.Actual = roundTenth(rel.Expected + surprise)
	rel.Released = true

	// The catalog's sign convention encodes which way the series moves
	// the pair: positive impact means EUR/USD down.
	impactPips := surprise * rt.BaseImpactPips
	direction := Bullish
	if impactPips > 0 {
		direction = Bearish
	}
	rel.Direction = direction

	magnitude := math.Abs(impactPips)
	shock, drift := magnitude, rt.DriftPips
	if direction == Bearish {
		shock, drift = -shock, -drift
	}

	item := Item{
		ID:         uuid.NewString(),
		GameMinute: gameMinute,
		Headline: fmt.Sprintf("%s: %g%s vs %g%s exp",
			rt.ShortName, rel.Actual, rt.Unit, rel.Expected, rt.Unit),
		Kind:       KindRelease,
		Direction:  direction,
		ImpactPips: magnitude,
		Release: &ReleaseData{
			Name:     rt.Name,
			Actual:   rel.Actual,
			Expected: rel.Expected,
			Unit:     rt.Unit,
		},
	}
	e.record(item, gameMinute)

	return Event{
		Item: item,
		Effect: Effect{
			ShockPips:       shock,
			DriftPips:       drift,
			DriftMinutes:    rt.DriftMinutes,
			VolatilityBoost: rt.VolatilityBoost,
		},
	}
}

func (e *Engine) fireHeadline(gameMinute int) (Event, bool) {
	hour := (gameMinute / 60) % 24

	var valid []HeadlineTemplate
	for _, t := range HeadlineCatalog {
		if t.MinHour != 0 && hour < t.MinHour {
			continue
		}
		if t.MaxHour != 0 && hour > t.MaxHour {
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return Event{}, false
	}
	tpl := valid[e.rng.Intn(len(valid))]

	shock, drift := tpl.ImmediatePips, tpl.DriftPips
	if tpl.Direction == Bearish {
		shock, drift = -shock, -drift
	}

	item := Item{
		ID:         uuid.NewString(),
		GameMinute: gameMinute,
		Headline:   tpl.Headline,
		Kind:       KindHeadline,
		Direction:  tpl.Direction,
		ImpactPips: tpl.ImmediatePips,
	}
	e.record(item, gameMinute)

	return Event{
		Item: item,
		Effect: Effect{
			ShockPips:       shock,
			DriftPips:       drift,
			DriftMinutes:    tpl.DriftMinutes,
			VolatilityBoost: tpl.VolatilityBoost,
		},
	}, true
}

func (e *Engine) record(item Item, gameMinute int) {
	e.history = append([]Item{item}, e.history...)
	if len(e.history) > e.cfg.HistorySize {
		e.history = e.history[:e.cfg.HistorySize]
	}
	e.lastNewsMinute = gameMinute
}

// UpcomingRelease returns a copy of the pending release, or false if
// releases are disabled.
func (e *Engine) UpcomingRelease() (ScheduledRelease, bool) {
	if !e.cfg.ReleasesEnabled || e.pending == nil || e.pending.Released {
		return ScheduledRelease{}, false
	}
	return *e.pending, true
}

// History returns the fired items, most recent first.
func (e *Engine) History() []Item {
	out := make([]Item, len(e.history))
	copy(out, e.history)
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

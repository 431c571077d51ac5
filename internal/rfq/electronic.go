package rfq

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/voxline/dealerdesk/internal/fx"
)

// ElectronicStatus is the lifecycle state of an electronic request.
// quoting -> traded|expired|passed. Passed is the player declining
// before expiry. Terminal states are never revisited.
type ElectronicStatus string

const (
	ElectronicQuoting ElectronicStatus = "quoting"
	ElectronicTraded  ElectronicStatus = "traded"
	ElectronicExpired ElectronicStatus = "expired"
	ElectronicPassed  ElectronicStatus = "passed"
)

// ElectronicRfq is one auto-evaluated client request on the e-stream.
type ElectronicRfq struct {
	ID          string
	Client      *Client
	Side        fx.Side // client's side
	Size        float64 // millions
	RequestTime time.Time
	ExpiryTime  time.Time
	Status      ElectronicStatus
	TradedPrice float64
	TradedTime  time.Time
	BanksAsked  int

	completedAt time.Time
}

// ElectronicConfig holds configuration for the electronic RFQ engine.
type ElectronicConfig struct {
	// MinInterval and MaxInterval bound the gap between requests.
	MinInterval time.Duration
	MaxInterval time.Duration
	// MaxActiveRfqs caps concurrent quoting requests.
	MaxActiveRfqs int
	// Retention keeps completed requests visible before cleanup.
	Retention time.Duration
}

// DefaultElectronicConfig returns an ElectronicConfig with reasonable
// defaults.
func DefaultElectronicConfig() ElectronicConfig {
	return ElectronicConfig{
		MinInterval:   8 * time.Second,
		MaxInterval:   20 * time.Second,
		MaxActiveRfqs: 5,
		Retention:     60 * time.Second,
	}
}

// ElectronicTickResult reports what one tick produced. Traded entries
// carry the traded price for booking; each request appears at most
// once across Traded and Expired over its lifetime.
type ElectronicTickResult struct {
	New     []ElectronicRfq
	Traded  []ElectronicRfq
	Expired []ElectronicRfq
}

// ElectronicEngine manages concurrent auto-evaluated requests.
type ElectronicEngine struct {
	cfg    ElectronicConfig
	rng    *rand.Rand
	roster []Client

	rfqs      []*ElectronicRfq
	nextRfqAt time.Time
}

// NewElectronicEngine creates an electronic engine; the first request
// is due a random interval after now.
func NewElectronicEngine(cfg ElectronicConfig, rng *rand.Rand, now time.Time) *ElectronicEngine {
	if cfg.MaxActiveRfqs <= 0 {
		cfg = DefaultElectronicConfig()
	}
	e := &ElectronicEngine{
		cfg:    cfg,
		rng:    rng,
		roster: Roster,
	}
	e.nextRfqAt = now.Add(e.randInterval())
	return e
}

func (e *ElectronicEngine) randInterval() time.Duration {
	return randDurationBetween(e.rng, e.cfg.MinInterval, e.cfg.MaxInterval)
}

// Tick generates new requests when due and auto-evaluates each
// quoting request once its patience runs out, against the e-price of
// the tier matching its size.
func (e *ElectronicEngine) Tick(now time.Time, prices fx.TierQuotes) ElectronicTickResult {
	var res ElectronicTickResult

	if !now.Before(e.nextRfqAt) && e.quotingCount() < e.cfg.MaxActiveRfqs {
		rfq := e.generate(now)
		e.rfqs = append(e.rfqs, rfq)
		res.New = append(res.New, *rfq)
		e.nextRfqAt = now.Add(e.randInterval())
	}

	for _, rfq := range e.rfqs {
		if rfq.Status != ElectronicQuoting || now.Before(rfq.ExpiryTime) {
			continue
		}

		quote := prices[fx.TierForSize(rfq.Size)]
		price := quote.Bid // client sells: they hit our bid
		if rfq.Side == fx.SideBuy {
			price = quote.Ask
		}

		if e.evaluate(rfq, now) {
			rfq.Status = ElectronicTraded
			rfq.TradedPrice = price
			rfq.TradedTime = now
			rfq.completedAt = now
			res.Traded = append(res.Traded, *rfq)
		} else {
			rfq.Status = ElectronicExpired
			rfq.completedAt = now
			res.Expired = append(res.Expired, *rfq)
		}
	}

	return res
}

func (e *ElectronicEngine) generate(now time.Time) *ElectronicRfq {
	client := &e.roster[e.rng.Intn(len(e.roster))]
	return &ElectronicRfq{
		ID:          uuid.NewString(),
		Client:      client,
		Side:        client.pickSide(e.rng),
		Size:        client.pickSize(e.rng),
		RequestTime: now,
		ExpiryTime:  now.Add(client.pickPatience(e.rng)),
		Status:      ElectronicQuoting,
		BanksAsked:  client.pickBanksAsked(e.rng),
	}
}

// evaluate decides whether the client deals. Acceptance rises
// monotonically toward the deadline: competitiveness plus an urgency
// bonus of up to 0.2.
func (e *ElectronicEngine) evaluate(rfq *ElectronicRfq, now time.Time) bool {
	prob := math.Min(1, rfq.Client.Competitiveness+0.2*e.urgency(rfq, now))
	return e.rng.Float64() < prob
}

// urgency is elapsed/patience in [0,1]. A zero patience window counts
// as fully elapsed.
func (e *ElectronicEngine) urgency(rfq *ElectronicRfq, now time.Time) float64 {
	total := rfq.ExpiryTime.Sub(rfq.RequestTime)
	if total <= 0 {
		return 1
	}
	ratio := float64(now.Sub(rfq.RequestTime)) / float64(total)
	return math.Max(0, math.Min(1, ratio))
}

// Reject is the player passing on a request. Valid only while it is
// still quoting.
func (e *ElectronicEngine) Reject(now time.Time, id string) bool {
	for _, rfq := range e.rfqs {
		if rfq.ID != id {
			continue
		}
		if rfq.Status != ElectronicQuoting {
			return false
		}
		rfq.Status = ElectronicPassed
		rfq.completedAt = now
		return true
	}
	return false
}

// Cleanup drops completed requests older than the retention window.
// Quoting requests are always kept.
func (e *ElectronicEngine) Cleanup(now time.Time) {
	cutoff := now.Add(-e.cfg.Retention)
	kept := e.rfqs[:0]
	for _, rfq := range e.rfqs {
		if rfq.Status == ElectronicQuoting || rfq.completedAt.After(cutoff) {
			kept = append(kept, rfq)
		}
	}
	// Zero the tail so removed entries can be collected.
	for i := len(kept); i < len(e.rfqs); i++ {
		e.rfqs[i] = nil
	}
	e.rfqs = kept
}

// All returns a copy of every retained request, oldest first.
func (e *ElectronicEngine) All() []ElectronicRfq {
	out := make([]ElectronicRfq, 0, len(e.rfqs))
	for _, rfq := range e.rfqs {
		out = append(out, *rfq)
	}
	return out
}

func (e *ElectronicEngine) quotingCount() int {
	n := 0
	for _, rfq := range e.rfqs {
		if rfq.Status == ElectronicQuoting {
			n++
		}
	}
	return n
}

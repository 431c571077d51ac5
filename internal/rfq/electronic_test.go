package rfq

import (
	"math/rand"
	"testing"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
)

func testPrices() fx.TierQuotes {
	q := fx.TierQuotes{}
	for i, t := range fx.Tiers {
		half := float64(i+1) * 0.0001 / 2
		q[t] = fx.Quote{Bid: 1.0850 - half, Ask: 1.0850 + half}
	}
	return q
}

func newTestElectronic(seed int64, now time.Time) *ElectronicEngine {
	cfg := DefaultElectronicConfig()
	cfg.MinInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	return NewElectronicEngine(cfg, rand.New(rand.NewSource(seed)), now)
}

func stubElectronicRfq(now time.Time, side fx.Side, size float64, comp float64, patience time.Duration) *ElectronicRfq {
	return &ElectronicRfq{
		ID:          "stub",
		Client:      &Client{Competitiveness: comp},
		Side:        side,
		Size:        size,
		RequestTime: now,
		ExpiryTime:  now.Add(patience),
		Status:      ElectronicQuoting,
	}
}

func TestElectronicConcurrencyCap(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(1, now)

	// Intervals of 1-2ms against 5s+ patience windows: generation is
	// always due, so the engine must stop at the cap.
	for i := 0; i < 200; i++ {
		now = now.Add(2 * time.Millisecond)
		e.Tick(now, testPrices())
	}
	if got := e.quotingCount(); got != e.cfg.MaxActiveRfqs {
		t.Errorf("quoting count = %d, want cap %d", got, e.cfg.MaxActiveRfqs)
	}
}

func TestElectronicTradePriceByTierAndSide(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(2, now)
	e.nextRfqAt = now.Add(time.Hour) // no organic generation
	prices := testPrices()

	// Certain accept: competitiveness 0.9 plus full urgency.
	buyer := stubElectronicRfq(now, fx.SideBuy, 25, 0.9, time.Second)
	seller := stubElectronicRfq(now, fx.SideSell, 3, 0.9, time.Second)
	seller.ID = "stub2"
	e.rfqs = append(e.rfqs, buyer, seller)

	res := e.Tick(now.Add(2*time.Second), prices)
	if len(res.Traded) != 2 {
		t.Fatalf("traded %d requests, want 2", len(res.Traded))
	}
	for _, rfq := range res.Traded {
		tier := fx.TierForSize(rfq.Size)
		want := prices[tier].Bid
		if rfq.Side == fx.SideBuy {
			want = prices[tier].Ask
		}
		if rfq.TradedPrice != want {
			t.Errorf("%s %vm traded at %v, want %v", rfq.Side, rfq.Size, rfq.TradedPrice, want)
		}
	}
}

func TestElectronicNeverTradesBeforeExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(3, now)
	e.nextRfqAt = now.Add(time.Hour)

	rfq := stubElectronicRfq(now, fx.SideBuy, 10, 1.0, 10*time.Second)
	e.rfqs = append(e.rfqs, rfq)

	for i := 1; i < 10; i++ {
		res := e.Tick(now.Add(time.Duration(i)*time.Second), testPrices())
		if len(res.Traded) != 0 || len(res.Expired) != 0 {
			t.Fatal("request evaluated before its expiry")
		}
	}
	if rfq.Status != ElectronicQuoting {
		t.Errorf("status = %v, want quoting", rfq.Status)
	}
}

func TestElectronicRejectOnlyWhileQuoting(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(4, now)
	e.nextRfqAt = now.Add(time.Hour)

	rfq := stubElectronicRfq(now, fx.SideSell, 10, 0.5, 10*time.Second)
	e.rfqs = append(e.rfqs, rfq)

	if !e.Reject(now, "stub") {
		t.Fatal("reject on quoting request refused")
	}
	if rfq.Status != ElectronicPassed {
		t.Fatalf("status = %v, want passed", rfq.Status)
	}
	if e.Reject(now, "stub") {
		t.Error("reject accepted twice")
	}
	if e.Reject(now, "missing") {
		t.Error("reject accepted for unknown id")
	}

	// Passed requests are out of the evaluation loop.
	res := e.Tick(now.Add(time.Minute), testPrices())
	if len(res.Traded) != 0 || len(res.Expired) != 0 {
		t.Error("passed request was re-evaluated")
	}
}

func TestElectronicCleanupRetention(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(5, now)
	e.nextRfqAt = now.Add(time.Hour)

	old := stubElectronicRfq(now, fx.SideBuy, 10, 0.5, time.Second)
	old.Status = ElectronicPassed
	old.completedAt = now

	fresh := stubElectronicRfq(now, fx.SideBuy, 10, 0.5, time.Second)
	fresh.ID = "fresh"
	fresh.Status = ElectronicPassed
	fresh.completedAt = now.Add(50 * time.Second)

	live := stubElectronicRfq(now, fx.SideBuy, 10, 0.5, time.Hour)
	live.ID = "live"

	e.rfqs = append(e.rfqs, old, fresh, live)
	e.Cleanup(now.Add(e.cfg.Retention + time.Second))

	all := e.All()
	if len(all) != 2 {
		t.Fatalf("retained %d requests, want 2", len(all))
	}
	if all[0].ID != "fresh" || all[1].ID != "live" {
		t.Errorf("retained ids %s,%s; want fresh,live", all[0].ID, all[1].ID)
	}
}

func TestElectronicUrgency(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := newTestElectronic(6, now)

	rfq := stubElectronicRfq(now, fx.SideBuy, 10, 0.5, 10*time.Second)
	if got := e.urgency(rfq, now); got != 0 {
		t.Errorf("urgency at request time = %v, want 0", got)
	}
	if got := e.urgency(rfq, now.Add(5*time.Second)); got != 0.5 {
		t.Errorf("urgency at half patience = %v, want 0.5", got)
	}
	if got := e.urgency(rfq, now.Add(20*time.Second)); got != 1 {
		t.Errorf("urgency past expiry = %v, want 1", got)
	}

	degenerate := stubElectronicRfq(now, fx.SideBuy, 10, 0.5, 0)
	if got := e.urgency(degenerate, now); got != 1 {
		t.Errorf("urgency with zero patience = %v, want 1", got)
	}
}

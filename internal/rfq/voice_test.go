package rfq

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
)

func testVoiceEngine(seed int64, now time.Time) *VoiceEngine {
	cfg := DefaultVoiceConfig()
	cfg.MinInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	return NewVoiceEngine(cfg, rand.New(rand.NewSource(seed)), now)
}

// spin ticks until a request appears.
func spinForRfq(t *testing.T, e *VoiceEngine, now time.Time, mid float64) (VoiceRfq, time.Time) {
	t.Helper()
	for i := 0; i < 100; i++ {
		now = now.Add(time.Millisecond)
		e.Tick(now, mid, 0)
		if rfq, ok := e.ActiveRfq(); ok {
			return rfq, now
		}
	}
	t.Fatal("no voice request generated")
	return VoiceRfq{}, now
}

func TestSingleActiveRequest(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testVoiceEngine(1, now)

	_, now = spinForRfq(t, e, now, 1.0850)

	// While one request is live, no second one may appear.
	first, _ := e.ActiveRfq()
	for i := 0; i < 50; i++ {
		now = now.Add(10 * time.Millisecond)
		e.Tick(now, 1.0850, 0)
		if cur, ok := e.ActiveRfq(); ok && cur.ID != first.ID {
			t.Fatal("second request generated while one was active")
		}
	}
}

func TestQuoteAcceptedFlow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testVoiceEngine(2, now)

	rfq, now := spinForRfq(t, e, now, 1.0850)

	if _, ok := e.SubmitQuote(now, rfq.ID, 1.0850); !ok {
		t.Fatal("quote on pending request refused")
	}
	cur, _ := e.ActiveRfq()
	if cur.Status != VoiceQuoted {
		t.Fatalf("status = %v, want quoted", cur.Status)
	}
	if !cur.DecisionTime.Equal(rfq.DecisionTime) {
		t.Error("quoting must not move the client's decision time")
	}

	// At-market quote with a huge volatility bonus: certain accept.
	now = cur.DecisionTime.Add(time.Millisecond)
	res := e.Tick(now, 1.0850, 5)
	if len(res.Completed) != 1 {
		t.Fatalf("expected 1 completed request, got %d", len(res.Completed))
	}
	done := res.Completed[0]
	if done.Status != VoiceDone {
		t.Fatalf("status = %v, want done", done.Status)
	}
	if done.PlayerQuote != 1.0850 {
		t.Errorf("completed quote = %v, want 1.0850", done.PlayerQuote)
	}
	if _, ok := e.ActiveRfq(); ok {
		t.Error("request still active after completion")
	}
}

func TestExpiryWithoutQuote(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testVoiceEngine(3, now)

	rfq, now := spinForRfq(t, e, now, 1.0850)

	res := e.Tick(rfq.ExpiryTime.Add(time.Millisecond), 1.0850, 0)
	if len(res.Completed) != 1 || res.Completed[0].Status != VoiceExpired {
		t.Fatalf("expected expired completion, got %+v", res.Completed)
	}
	_ = now
}

func TestCallOffRejectsOnNextTick(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testVoiceEngine(4, now)

	rfq, now := spinForRfq(t, e, now, 1.0850)

	if _, ok := e.CallOff(now, rfq.ID); !ok {
		t.Fatal("call-off on pending request refused")
	}
	res := e.Tick(now.Add(time.Millisecond), 1.0850, 0)
	if len(res.Completed) != 1 || res.Completed[0].Status != VoiceRejected {
		t.Fatalf("expected rejected completion, got %+v", res.Completed)
	}

	// Terminal: further actions must fail without state change.
	if _, ok := e.SubmitQuote(now, rfq.ID, 1.0850); ok {
		t.Error("quote accepted on completed request")
	}
	if _, ok := e.CallOff(now, rfq.ID); ok {
		t.Error("call-off accepted on completed request")
	}
}

func TestEvaluateQuoteSpreadBoundary(t *testing.T) {
	cfg := DefaultVoiceConfig()
	client := &Client{Competitiveness: 1.0}
	mid := 1.0850

	// Selling client: dealer bids below mid. The threshold is set to the
	// quote's exact spread, so the quote sits precisely on the boundary
	// and must still be evaluated: at full spread ratio and
	// competitiveness 1.0 the probability is 0.5, so over many draws
	// some must accept.
	quote := mid - 0.0030
	cfg.MaxSpreadFromMarketPips = fx.Pips(mid - quote)
	e := &VoiceEngine{cfg: cfg, rng: rand.New(rand.NewSource(5))}

	atBoundary := &VoiceRfq{
		Client: client, Side: fx.SideSell, HasQuote: true,
		PlayerQuote: quote,
	}
	accepted := 0
	for i := 0; i < 1000; i++ {
		if e.evaluateQuote(atBoundary, mid, 0) {
			accepted++
		}
	}
	if accepted == 0 {
		t.Error("quote exactly at the spread threshold was never accepted")
	}

	// One pip beyond the threshold: rejected outright.
	beyond := &VoiceRfq{
		Client: client, Side: fx.SideSell, HasQuote: true,
		PlayerQuote: quote - fx.PipSize,
	}
	for i := 0; i < 1000; i++ {
		if e.evaluateQuote(beyond, mid, 0) {
			t.Fatal("quote beyond the spread threshold was accepted")
		}
	}
}

func TestEvaluateQuoteFavorsDealerSign(t *testing.T) {
	cfg := DefaultVoiceConfig()
	e := &VoiceEngine{cfg: cfg, rng: rand.New(rand.NewSource(6))}
	client := &Client{Competitiveness: 1.0}
	mid := 1.0850

	// A bid above mid (through the market) has negative dealer spread
	// and must always be accepted at competitiveness 1.
	through := &VoiceRfq{
		Client: client, Side: fx.SideSell, HasQuote: true,
		PlayerQuote: mid + 0.0005,
	}
	for i := 0; i < 100; i++ {
		if !e.evaluateQuote(through, mid, 0) {
			t.Fatal("through-market quote at competitiveness 1 was refused")
		}
	}
}

func TestParseInput(t *testing.T) {
	mid := 1.0845
	cases := []struct {
		in    string
		kind  InputKind
		price float64
	}{
		{"care", InputCallOff, 0},
		{"REF", InputCallOff, 0},
		{"eee", InputCallOff, 0},
		{"1.0852", InputQuote, 1.0852},
		{"52", InputQuote, 1.0852},
		{"5", InputQuote, 1.0805},
		{"852", InputQuote, 1.0852},
		{"0852", InputQuote, 1.0852},
		{"  1.0852  ", InputQuote, 1.0852},
		{"hello", InputInvalid, 0},
		{"1.085", InputInvalid, 0},
		{"12345", InputInvalid, 0},
		{"", InputInvalid, 0},
		{"-52", InputInvalid, 0},
	}
	for _, c := range cases {
		got := ParseInput(c.in, mid)
		if got.Kind != c.kind {
			t.Errorf("ParseInput(%q) kind = %v, want %v", c.in, got.Kind, c.kind)
			continue
		}
		if c.kind == InputQuote && math.Abs(got.Price-c.price) > 1e-9 {
			t.Errorf("ParseInput(%q) price = %v, want %v", c.in, got.Price, c.price)
		}
	}
}

func TestChatHistoryCapped(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cfg := DefaultVoiceConfig()
	cfg.ChatHistorySize = 3
	e := NewVoiceEngine(cfg, rand.New(rand.NewSource(7)), now)

	for i := 0; i < 10; i++ {
		e.RecordPlayerLine(now, "line", "")
	}
	if got := len(e.Chat()); got != 3 {
		t.Errorf("chat length %d, want cap 3", got)
	}
}

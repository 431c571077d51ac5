package rfq

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxline/dealerdesk/internal/fx"
)

// VoiceStatus is the lifecycle state of a voice request.
// pending -> quoted -> done|rejected; pending -> expired if no quote
// arrives in time; pending|quoted -> rejected when called off.
// Terminal states are never revisited.
type VoiceStatus string

const (
	VoicePending  VoiceStatus = "pending"
	VoiceQuoted   VoiceStatus = "quoted"
	VoiceDone     VoiceStatus = "done"
	VoiceRejected VoiceStatus = "rejected"
	VoiceExpired  VoiceStatus = "expired"
)

// VoiceRfq is one manually quoted client request.
type VoiceRfq struct {
	ID           string
	Client       *Client
	Side         fx.Side // client's side
	Size         float64 // millions
	RequestTime  time.Time
	ExpiryTime   time.Time // player must quote by then
	DecisionTime time.Time // client decides then, quote or not
	Status       VoiceStatus
	Salesperson  string
	PlayerQuote  float64
	HasQuote     bool
	CalledOff    bool
	BanksAsked   int
}

// VoiceConfig holds configuration for the voice RFQ engine.
type VoiceConfig struct {
	// MinInterval and MaxInterval bound the gap between requests.
	MinInterval time.Duration
	MaxInterval time.Duration
	// PlayerResponseTime is how long the player has to quote.
	PlayerResponseTime time.Duration
	// MaxSpreadFromMarketPips rejects quotes too far off the mid.
	MaxSpreadFromMarketPips float64
	// ChatHistorySize caps the retained chat log.
	ChatHistorySize int
}

// DefaultVoiceConfig returns a VoiceConfig with reasonable defaults.
func DefaultVoiceConfig() VoiceConfig {
	return VoiceConfig{
		MinInterval:             15 * time.Second,
		MaxInterval:             45 * time.Second,
		PlayerResponseTime:      30 * time.Second,
		MaxSpreadFromMarketPips: 30,
		ChatHistorySize:         200,
	}
}

// VoiceTickResult reports what one tick produced. Completed carries
// each request exactly once, on the tick its terminal transition
// happened; entries with status done still hold the player's quote for
// trade booking.
type VoiceTickResult struct {
	Messages  []ChatMessage
	Completed []VoiceRfq
}

// VoiceEngine manages the single active voice request.
type VoiceEngine struct {
	cfg    VoiceConfig
	rng    *rand.Rand
	roster []Client

	current   *VoiceRfq
	chat      []ChatMessage
	nextRfqAt time.Time
}

// NewVoiceEngine creates a voice engine; the first request is due a
// random interval after now.
func NewVoiceEngine(cfg VoiceConfig, rng *rand.Rand, now time.Time) *VoiceEngine {
	if cfg.MaxInterval <= 0 {
		cfg = DefaultVoiceConfig()
	}
	e := &VoiceEngine{
		cfg:    cfg,
		rng:    rng,
		roster: Roster,
	}
	e.nextRfqAt = now.Add(e.randInterval())
	return e
}

func (e *VoiceEngine) randInterval() time.Duration {
	return randDurationBetween(e.rng, e.cfg.MinInterval, e.cfg.MaxInterval)
}

// Tick generates a new request when due and drives the active one
// through expiry, call-off, and the client's decision.
func (e *VoiceEngine) Tick(now time.Time, mid, volatilityFactor float64) VoiceTickResult {
	var res VoiceTickResult

	if e.current == nil && !now.Before(e.nextRfqAt) {
		rfq := e.generate(now)
		e.current = rfq
		msg := e.requestMessage(now, rfq)
		e.appendChat(msg)
		res.Messages = append(res.Messages, msg)
		e.nextRfqAt = now.Add(e.randInterval())
	}

	rfq := e.current
	if rfq == nil {
		return res
	}

	complete := func() {
		res.Completed = append(res.Completed, *rfq)
		e.current = nil
	}

	// No quote before the sales desk's deadline: lost.
	if rfq.Status == VoicePending && !now.Before(rfq.ExpiryTime) {
		rfq.Status = VoiceExpired
		msg := salesMessage(now, rfq.Salesperson, pickTemplate(e.rng, expiredTemplates), rfq.ID)
		e.appendChat(msg)
		res.Messages = append(res.Messages, msg)
		complete()
		return res
	}

	if rfq.CalledOff {
		rfq.Status = VoiceRejected
		complete()
		return res
	}

	if rfq.Status == VoiceQuoted && rfq.HasQuote && !now.Before(rfq.DecisionTime) {
		if e.evaluateQuote(rfq, mid, volatilityFactor) {
			rfq.Status = VoiceDone
			msg := salesMessage(now, rfq.Salesperson, e.doneText(rfq), rfq.ID)
			e.appendChat(msg)
			res.Messages = append(res.Messages, msg)
		} else {
			rfq.Status = VoiceRejected
			msg := salesMessage(now, rfq.Salesperson, pickTemplate(e.rng, rejectedTemplates), rfq.ID)
			e.appendChat(msg)
			res.Messages = append(res.Messages, msg)
		}
		complete()
	}

	return res
}

func (e *VoiceEngine) generate(now time.Time) *VoiceRfq {
	client := &e.roster[e.rng.Intn(len(e.roster))]
	return &VoiceRfq{
		ID:           uuid.NewString(),
		Client:       client,
		Side:         client.pickSide(e.rng),
		Size:         client.pickSize(e.rng),
		RequestTime:  now,
		ExpiryTime:   now.Add(e.cfg.PlayerResponseTime),
		DecisionTime: now.Add(client.pickPatience(e.rng)),
		Status:       VoicePending,
		Salesperson:  salespeople[e.rng.Intn(len(salespeople))],
		BanksAsked:   client.pickBanksAsked(e.rng),
	}
}

func (e *VoiceEngine) requestMessage(now time.Time, rfq *VoiceRfq) ChatMessage {
	pool := sellRequestTemplates
	if rfq.Side == fx.SideBuy {
		pool = buyRequestTemplates
	}
	text := fillTemplate(pickTemplate(e.rng, pool), map[string]string{
		"client": rfq.Client.Name,
		"size":   strconv.Itoa(int(rfq.Size)),
	})
	return salesMessage(now, rfq.Salesperson, text, rfq.ID)
}

func (e *VoiceEngine) doneText(rfq *VoiceRfq) string {
	pool := doneSellTemplates
	if rfq.Side == fx.SideBuy {
		pool = doneBuyTemplates
	}
	pips := int(math.Round(rfq.PlayerQuote*10000)) % 100
	return fillTemplate(pickTemplate(e.rng, pool), map[string]string{
		"price": fx.FormatPrice(rfq.PlayerQuote),
		"pips":  fmt.Sprintf("%02d", pips),
		"size":  strconv.Itoa(int(rfq.Size)),
	})
}

// evaluateQuote decides whether the client deals on the player's
// quote. The spread is signed in the dealer's favor: a bid below mid
// or an offer above mid is positive. A quote strictly wider than the
// threshold is refused outright; exactly at it is still evaluated.
// Otherwise acceptance is probabilistic in competitiveness, spread,
// and volatility.
func (e *VoiceEngine) evaluateQuote(rfq *VoiceRfq, mid, volatilityFactor float64) bool {
	if !rfq.HasQuote {
		return false
	}

	var spreadPips float64
	if rfq.Side == fx.SideBuy {
		spreadPips = fx.Pips(rfq.PlayerQuote - mid) // dealer's offer
	} else {
		spreadPips = fx.Pips(mid - rfq.PlayerQuote) // dealer's bid
	}

	if spreadPips > e.cfg.MaxSpreadFromMarketPips {
		return false
	}

	spreadRatio := spreadPips / e.cfg.MaxSpreadFromMarketPips
	prob := rfq.Client.Competitiveness*(1-0.5*spreadRatio) + volatilityFactor*0.2
	prob = math.Min(1, prob)

	return e.rng.Float64() < prob
}

// SubmitQuote records the player's price. Valid only while the
// request is pending or already quoted; the client's decision deadline
// is unchanged — quoting buys no extra time.
func (e *VoiceEngine) SubmitQuote(now time.Time, id string, price float64) (ChatMessage, bool) {
	rfq := e.current
	if rfq == nil || rfq.ID != id {
		return ChatMessage{}, false
	}
	if rfq.Status != VoicePending && rfq.Status != VoiceQuoted {
		return ChatMessage{}, false
	}

	rfq.PlayerQuote = price
	rfq.HasQuote = true
	rfq.Status = VoiceQuoted

	msg := playerMessage(now, fx.FormatPrice(price), rfq.ID)
	e.appendChat(msg)
	return msg, true
}

// CallOff withdraws the player from the request. The transition to
// rejected happens on the next tick.
func (e *VoiceEngine) CallOff(now time.Time, id string) (ChatMessage, bool) {
	rfq := e.current
	if rfq == nil || rfq.ID != id {
		return ChatMessage{}, false
	}
	if rfq.Status != VoicePending && rfq.Status != VoiceQuoted {
		return ChatMessage{}, false
	}

	rfq.CalledOff = true
	msg := salesMessage(now, rfq.Salesperson, pickTemplate(e.rng, calledOffTemplates), rfq.ID)
	e.appendChat(msg)
	return msg, true
}

// ActiveRfq returns a copy of the live request, if any.
func (e *VoiceEngine) ActiveRfq() (VoiceRfq, bool) {
	if e.current == nil {
		return VoiceRfq{}, false
	}
	return *e.current, true
}

// Chat returns a copy of the chat log, oldest first.
func (e *VoiceEngine) Chat() []ChatMessage {
	out := make([]ChatMessage, len(e.chat))
	copy(out, e.chat)
	return out
}

// RecordPlayerLine appends a raw player line to the chat (echoes of
// call-off keywords and such). It does not touch any request.
func (e *VoiceEngine) RecordPlayerLine(now time.Time, text, rfqID string) ChatMessage {
	msg := playerMessage(now, text, rfqID)
	e.appendChat(msg)
	return msg
}

// MaxSpreadFromMarketPips exposes the quote boundary for callers that
// pre-check input.
func (e *VoiceEngine) MaxSpreadFromMarketPips() float64 {
	return e.cfg.MaxSpreadFromMarketPips
}

func (e *VoiceEngine) appendChat(msg ChatMessage) {
	e.chat = append(e.chat, msg)
	if n := e.cfg.ChatHistorySize; n > 0 && len(e.chat) > n {
		e.chat = e.chat[len(e.chat)-n:]
	}
}

// InputKind classifies parsed player chat input.
type InputKind int

const (
	InputInvalid InputKind = iota
	InputQuote
	InputCallOff
)

// ParsedInput is the result of ParseInput.
type ParsedInput struct {
	Kind  InputKind
	Price float64
}

var (
	callOffPattern   = regexp.MustCompile(`^e+$`)
	fullPricePattern = regexp.MustCompile(`^(\d+\.\d{4})$`)
	pipsOnlyPattern  = regexp.MustCompile(`^(\d{1,2})$`)
	fullPipsPattern  = regexp.MustCompile(`^(\d{3,4})$`)
)

// ParseInput interprets player chat: call-off keywords, a full
// 4-decimal price, a 1-2 digit pip shorthand completed with the
// current big figure, or a 3-4 digit full-pip shorthand. Anything else
// is invalid and mutates nothing.
func ParseInput(input string, mid float64) ParsedInput {
	trimmed := strings.ToLower(strings.TrimSpace(input))

	if trimmed == "care" || trimmed == "ref" || callOffPattern.MatchString(trimmed) {
		return ParsedInput{Kind: InputCallOff}
	}

	if m := fullPricePattern.FindStringSubmatch(trimmed); m != nil {
		price, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return ParsedInput{Kind: InputInvalid}
		}
		return ParsedInput{Kind: InputQuote, Price: price}
	}

	// "52" on a 1.0845 mid quotes 1.0852; "5" quotes 1.0805.
	if m := pipsOnlyPattern.FindStringSubmatch(trimmed); m != nil {
		bigFigure := math.Floor(mid*100) / 100
		pips, _ := strconv.Atoi(m[1])
		return ParsedInput{Kind: InputQuote, Price: bigFigure + float64(pips)/10000}
	}

	// "852" or "0852" quotes 1.0852.
	if m := fullPipsPattern.FindStringSubmatch(trimmed); m != nil {
		digits := m[1]
		for len(digits) < 4 {
			digits = "0" + digits
		}
		hundredths, _ := strconv.Atoi(digits[:2])
		pips, _ := strconv.Atoi(digits[2:])
		return ParsedInput{Kind: InputQuote, Price: 1 + float64(hundredths)/100 + float64(pips)/10000}
	}

	return ParsedInput{Kind: InputInvalid}
}

package rfq

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a chat line.
type Sender string

const (
	SenderSales  Sender = "sales"
	SenderPlayer Sender = "player"
)

// ChatMessage is one line in the sales chat.
type ChatMessage struct {
	ID     string
	Time   time.Time
	Sender Sender
	Text   string
	RfqID  string
}

var salespeople = []string{"Sarah", "Mike", "Emma", "James", "Lisa"}

// Request templates, keyed by the client's side.
var buyRequestTemplates = []string{
	"{client} is looking to buy {size}m EURUSD, what's your offer?",
	"I need an offer in {size}m for {client}!",
	"{client} wants to buy {size}m EUR, give me an offer?",
	"Can I get an offer in {size}m EURUSD for {client}?",
}

var sellRequestTemplates = []string{
	"{client} is looking to sell {size}m EURUSD, what's your bid?",
	"I need a bid in {size}m for {client}!",
	"{client} wants to sell {size}m EUR, give me a bid?",
	"Can I get a bid in {size}m EURUSD for {client}?",
}

// Client buy = dealer sells = sales claims it with "MINE".
var doneBuyTemplates = []string{"MINE!", "MINE at {pips}!", "Done! You sold {size}m at {price}"}

// Client sell = dealer buys = "YOURS".
var doneSellTemplates = []string{"YOURS!", "YOURS at {pips}!", "Done! You bought {size}m at {price}"}

var rejectedTemplates = []string{"Nothing there", "Traded away", "Off, thanks", "No good"}
var expiredTemplates = []string{"Too slow, they went elsewhere", "Lost it, took too long"}
var calledOffTemplates = []string{"Ok, I'll tell them you're off", "Noted, calling it off"}

func fillTemplate(tpl string, vars map[string]string) string {
	for k, v := range vars {
		tpl = strings.ReplaceAll(tpl, "{"+k+"}", v)
	}
	return tpl
}

func pickTemplate(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func salesMessage(now time.Time, salesperson, text, rfqID string) ChatMessage {
	return ChatMessage{
		ID:     uuid.NewString(),
		Time:   now,
		Sender: SenderSales,
		Text:   fmt.Sprintf("[%s] %s", salesperson, text),
		RfqID:  rfqID,
	}
}

func playerMessage(now time.Time, text, rfqID string) ChatMessage {
	return ChatMessage{
		ID:     uuid.NewString(),
		Time:   now,
		Sender: SenderPlayer,
		Text:   text,
		RfqID:  rfqID,
	}
}

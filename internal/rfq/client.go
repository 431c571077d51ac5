// Package rfq generates and manages client trade requests: manually
// quoted voice requests relayed through the sales desk, and
// auto-evaluated electronic requests priced off the e-stream.
package rfq

import (
	"math/rand"
	"time"

	"github.com/voxline/dealerdesk/internal/fx"
)

// Bias constrains the sides a client trades.
type Bias uint8

const (
	BiasBoth Bias = iota
	BiasBuy
	BiasSell
)

// Client is an immutable behavioral profile. RFQs reference their
// originating client; profiles are never copied per request.
type Client struct {
	ID   string
	Name string
	// Competitiveness is the willingness to trade at a given price,
	// 0-1. Price-sensitive clients sit near 0.4.
	Competitiveness float64
	PatienceMin     time.Duration
	PatienceMax     time.Duration
	SizeMin         int // millions
	SizeMax         int
	Bias            Bias
	FrequencyMin    time.Duration
	FrequencyMax    time.Duration
	BanksAskedMin   int
	BanksAskedMax   int
}

// Roster is the fixed set of simulated clients.
var Roster = []Client{
	{
		ID: "macrohard", Name: "MacroHard Corp",
		Competitiveness: 0.7,
		PatienceMin:     5 * time.Second, PatienceMax: 10 * time.Second,
		SizeMin: 5, SizeMax: 25,
		Bias:         BiasBoth,
		FrequencyMin: 30 * time.Second, FrequencyMax: 120 * time.Second,
		BanksAskedMin: 5, BanksAskedMax: 15,
	},
	{
		ID: "bills-bakery", Name: "Bill's Bakery",
		Competitiveness: 0.9,
		PatienceMin:     5 * time.Second, PatienceMax: 10 * time.Second,
		SizeMin: 1, SizeMax: 5,
		Bias:         BiasBuy,
		FrequencyMin: 60 * time.Second, FrequencyMax: 300 * time.Second,
		BanksAskedMin: 3, BanksAskedMax: 5,
	},
	{
		ID: "abc-capital", Name: "ABC Capital",
		Competitiveness: 0.4,
		PatienceMin:     5 * time.Second, PatienceMax: 10 * time.Second,
		SizeMin: 10, SizeMax: 50,
		Bias:         BiasBoth,
		FrequencyMin: 20 * time.Second, FrequencyMax: 60 * time.Second,
		BanksAskedMin: 10, BanksAskedMax: 20,
	},
}

func (c *Client) pickSide(rng *rand.Rand) fx.Side {
	switch c.Bias {
	case BiasBuy:
		return fx.SideBuy
	case BiasSell:
		return fx.SideSell
	default:
		if rng.Float64() < 0.5 {
			return fx.SideBuy
		}
		return fx.SideSell
	}
}

func (c *Client) pickSize(rng *rand.Rand) float64 {
	return float64(randIntBetween(rng, c.SizeMin, c.SizeMax))
}

func (c *Client) pickPatience(rng *rand.Rand) time.Duration {
	return randDurationBetween(rng, c.PatienceMin, c.PatienceMax)
}

func (c *Client) pickBanksAsked(rng *rand.Rand) int {
	return randIntBetween(rng, c.BanksAskedMin, c.BanksAskedMax)
}

func randIntBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

func randDurationBetween(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Float64()*float64(max-min))
}

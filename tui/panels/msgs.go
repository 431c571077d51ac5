package panels

import "github.com/voxline/dealerdesk/internal/fx"

// ChatSubmitMsg is sent when the player submits a chat line.
type ChatSubmitMsg struct {
	Text string
}

// HedgeSubmitMsg is sent when the player fires a market hedge at the
// dealable tier price shown on screen.
type HedgeSubmitMsg struct {
	Side  fx.Side
	Size  float64
	Price float64
}

// TwapStartMsg is sent when the player starts a TWAP hedge. A zero
// SliceSize leaves the child trade size to the game's default.
type TwapStartMsg struct {
	Side      fx.Side
	Size      float64
	SliceSize float64
}

// TwapStopMsg is sent when the player cancels the running TWAP.
type TwapStopMsg struct{}

// RejectRfqMsg is sent when the player passes on an electronic RFQ.
type RejectRfqMsg struct {
	ID string
}

// EPricingMsg is sent when the player changes the e-pricing controls.
type EPricingMsg struct {
	SkewPips      float64
	MinSpreadPips float64
}

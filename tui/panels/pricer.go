package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/tui/styles"
)

// PricerPanel shows the market price, the trading session, and the
// electronic tier quotes the desk is streaming.
type PricerPanel struct {
	snap    game.Snapshot
	prevMid float64
	focused bool
	width   int
	height  int
}

// NewPricerPanel creates a new pricer panel.
func NewPricerPanel() *PricerPanel {
	return &PricerPanel{}
}

// Init initializes the panel.
func (p *PricerPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PricerPanel) Update(msg tea.Msg) (*PricerPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot updates the panel's data.
func (p *PricerPanel) SetSnapshot(snap game.Snapshot) {
	p.prevMid = p.snap.Mid
	p.snap = snap
}

// View renders the panel.
func (p *PricerPanel) View() string {
	var b strings.Builder
	s := p.snap

	midStyle := styles.BigPriceStyle
	switch {
	case s.Mid > p.prevMid:
		midStyle = midStyle.Foreground(styles.BuyColor)
	case s.Mid < p.prevMid:
		midStyle = midStyle.Foreground(styles.SellColor)
	}

	b.WriteString(fmt.Sprintf("%s  %s %s\n",
		styles.TimeStyle.Render(s.Clock),
		styles.LabelStyle.Render(s.Session.Label),
		styles.MutedStyle.Render(fmt.Sprintf("x%.1f", s.Session.Multiplier))))

	b.WriteString(fmt.Sprintf("EUR/USD  %s\n", midStyle.Render(fx.FormatPrice(s.Mid))))
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s\n",
		styles.BuyStyle.Render("bid"), fx.FormatPrice(s.Bid),
		styles.SellStyle.Render("ask"), fx.FormatPrice(s.Ask),
		styles.MutedStyle.Render(fmt.Sprintf("%.1fp", s.SpreadPips))))

	if s.ImpactPips != 0 {
		b.WriteString(fmt.Sprintf("impact %s\n",
			styles.PnlStyle(s.ImpactPips).Render(fmt.Sprintf("%+.1fp", s.ImpactPips))))
	}
	if s.VolatilityFactor > 0.01 {
		b.WriteString(styles.NewsImportantStyle.Render(
			fmt.Sprintf("vol +%.0f%%", s.VolatilityFactor*100)) + "\n")
	}

	b.WriteString("\n" + styles.HeaderStyle.Render("tier      bid      ask   sprd") + "\n")
	for _, tier := range fx.Tiers {
		q := s.TierPrices[tier]
		b.WriteString(fmt.Sprintf("%-4s %s %s %s\n",
			tier.String(),
			fx.FormatPrice(q.Bid),
			fx.FormatPrice(q.Ask),
			styles.MutedStyle.Render(fmt.Sprintf("%5.1fp", s.TierSpreadsPips[tier]))))
	}

	if s.EPricing.SkewPips != 0 || s.EPricing.MinSpreadPips != 0 {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf(
			"skew %+.1fp  min %.1fp", s.EPricing.SkewPips, s.EPricing.MinSpreadPips)) + "\n")
	}

	if s.HasUpcomingRelease {
		mins := s.UpcomingRelease.ScheduledGameMinutes - s.GameMinute
		b.WriteString("\n" + styles.LabelStyle.Render(fmt.Sprintf(
			"next: %s in %dm", s.UpcomingRelease.Type.ShortName, mins)))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Pricer", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, b.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PricerPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PricerPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

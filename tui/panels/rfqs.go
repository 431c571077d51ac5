package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/internal/rfq"
	"github.com/voxline/dealerdesk/tui/styles"
)

// RfqPanel lists the electronic requests streaming against the desk's
// e-prices. The player can pass on any that is still quoting.
type RfqPanel struct {
	rfqs          []rfq.ElectronicRfq
	now           time.Time
	selectedIndex int

	focused bool
	width   int
	height  int
}

// NewRfqPanel creates a new electronic RFQ panel.
func NewRfqPanel() *RfqPanel {
	return &RfqPanel{}
}

// Init initializes the panel.
func (p *RfqPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *RfqPanel) Update(msg tea.Msg) (*RfqPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex < len(p.rfqs)-1 {
			p.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("x"))):
		if p.selectedIndex < len(p.rfqs) {
			r := p.rfqs[p.selectedIndex]
			if r.Status == rfq.ElectronicQuoting {
				id := r.ID
				return p, func() tea.Msg { return RejectRfqMsg{ID: id} }
			}
		}
	}
	return p, nil
}

// SetSnapshot updates the panel's data.
func (p *RfqPanel) SetSnapshot(snap game.Snapshot) {
	p.rfqs = snap.ElectronicRfqs
	p.now = snap.Time
	if p.selectedIndex >= len(p.rfqs) {
		p.selectedIndex = len(p.rfqs) - 1
		if p.selectedIndex < 0 {
			p.selectedIndex = 0
		}
	}
}

// View renders the panel.
func (p *RfqPanel) View() string {
	var b strings.Builder

	if len(p.rfqs) == 0 {
		b.WriteString(styles.MutedStyle.Render("No electronic requests"))
	} else {
		b.WriteString(styles.HeaderStyle.Render("client        side  size  status") + "\n")

		visible := p.height - 5
		if visible < 1 {
			visible = 1
		}
		rfqs := p.rfqs
		start := 0
		if len(rfqs) > visible {
			start = len(rfqs) - visible
			if p.selectedIndex < start {
				start = p.selectedIndex
			}
			rfqs = rfqs[start:min(start+visible, len(p.rfqs))]
		}

		for i, r := range rfqs {
			status := p.statusText(r)
			line := fmt.Sprintf("%-12s %s %5s  %s",
				r.Client.Name,
				styles.SideStyle(r.Side == fx.SideBuy).Render(fmt.Sprintf("%-4s", r.Side.String())),
				fx.FormatMillions(r.Size),
				status)
			if start+i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("E-RFQs", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, b.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *RfqPanel) statusText(r rfq.ElectronicRfq) string {
	switch r.Status {
	case rfq.ElectronicQuoting:
		remaining := r.ExpiryTime.Sub(p.now).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return styles.LabelStyle.Render("quoting " + remaining.String())
	case rfq.ElectronicTraded:
		return styles.BuyStyle.Render("traded " + fx.FormatPrice(r.TradedPrice))
	case rfq.ElectronicPassed:
		return styles.MutedStyle.Render("passed")
	default:
		return styles.MutedStyle.Render("expired")
	}
}

// SetFocus sets the focus state of the panel.
func (p *RfqPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *RfqPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/tui/styles"
)

// DeskField is the currently focused desk control.
type DeskField int

const (
	FieldSide DeskField = iota
	FieldSize
	FieldHedge
	FieldSlice
	FieldTwap
	FieldSkew
	FieldMinSpread
	FieldApply
	deskFieldCount
)

// DeskPanel shows position, P&L and the trade blotter, and hosts the
// hedging and e-pricing controls.
type DeskPanel struct {
	snap game.Snapshot

	side           fx.Side
	sizeInput      textinput.Model
	sliceInput     textinput.Model
	skewInput      textinput.Model
	minSpreadInput textinput.Model
	currentField   DeskField
	errText        string

	focused bool
	width   int
	height  int
}

// NewDeskPanel creates a new desk panel.
func NewDeskPanel() *DeskPanel {
	sizeInput := textinput.New()
	sizeInput.Placeholder = "size (m)"
	sizeInput.CharLimit = 6
	sizeInput.Width = 8

	sliceInput := textinput.New()
	sliceInput.Placeholder = "slice (m)"
	sliceInput.CharLimit = 6
	sliceInput.Width = 8

	skewInput := textinput.New()
	skewInput.Placeholder = "skew (p)"
	skewInput.CharLimit = 6
	skewInput.Width = 8

	minSpreadInput := textinput.New()
	minSpreadInput.Placeholder = "min (p)"
	minSpreadInput.CharLimit = 6
	minSpreadInput.Width = 8

	return &DeskPanel{
		side:           fx.SideBuy,
		sizeInput:      sizeInput,
		sliceInput:     sliceInput,
		skewInput:      skewInput,
		minSpreadInput: minSpreadInput,
	}
}

// Init initializes the panel.
func (p *DeskPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *DeskPanel) Update(msg tea.Msg) (*DeskPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, p.updateInputs(msg)
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down"))):
		p.setField((p.currentField + 1) % deskFieldCount)
		return p, nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up"))):
		f := p.currentField - 1
		if f < 0 {
			f = deskFieldCount - 1
		}
		p.setField(f)
		return p, nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "right"))):
		if p.currentField == FieldSide {
			p.side = p.side.Opposite()
		}
		return p, nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		return p, p.activate()
	}

	return p, p.updateInputs(msg)
}

func (p *DeskPanel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.currentField {
	case FieldSize:
		p.sizeInput, cmd = p.sizeInput.Update(msg)
	case FieldSlice:
		p.sliceInput, cmd = p.sliceInput.Update(msg)
	case FieldSkew:
		p.skewInput, cmd = p.skewInput.Update(msg)
	case FieldMinSpread:
		p.minSpreadInput, cmd = p.minSpreadInput.Update(msg)
	}
	return cmd
}

func (p *DeskPanel) setField(f DeskField) {
	p.currentField = f
	p.sizeInput.Blur()
	p.sliceInput.Blur()
	p.skewInput.Blur()
	p.minSpreadInput.Blur()
	switch f {
	case FieldSize:
		p.sizeInput.Focus()
	case FieldSlice:
		p.sliceInput.Focus()
	case FieldSkew:
		p.skewInput.Focus()
	case FieldMinSpread:
		p.minSpreadInput.Focus()
	}
}

// activate fires the control under the cursor.
func (p *DeskPanel) activate() tea.Cmd {
	p.errText = ""

	switch p.currentField {
	case FieldSide:
		p.side = p.side.Opposite()
		return nil

	case FieldHedge, FieldTwap:
		size, err := strconv.ParseFloat(strings.TrimSpace(p.sizeInput.Value()), 64)
		if err != nil || size <= 0 {
			p.errText = "enter a positive size"
			return nil
		}
		side := p.side
		if p.currentField == FieldTwap {
			if p.snap.Twap.Active {
				return func() tea.Msg { return TwapStopMsg{} }
			}
			slice := 0.0
			if v := strings.TrimSpace(p.sliceInput.Value()); v != "" {
				parsed, err := strconv.ParseFloat(v, 64)
				if err != nil || parsed <= 0 {
					p.errText = "bad slice size"
					return nil
				}
				slice = parsed
			}
			return func() tea.Msg { return TwapStartMsg{Side: side, Size: size, SliceSize: slice} }
		}
		price := p.hedgePrice(side, size)
		return func() tea.Msg { return HedgeSubmitMsg{Side: side, Size: size, Price: price} }

	case FieldApply:
		skew := 0.0
		if v := strings.TrimSpace(p.skewInput.Value()); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				p.errText = "bad skew"
				return nil
			}
			skew = parsed
		}
		minSpread := 0.0
		if v := strings.TrimSpace(p.minSpreadInput.Value()); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < 0 {
				p.errText = "bad min spread"
				return nil
			}
			minSpread = parsed
		}
		return func() tea.Msg { return EPricingMsg{SkewPips: skew, MinSpreadPips: minSpread} }
	}
	return nil
}

// hedgePrice is the dealable tier price for the size: mid shifted by
// half the spread of the size's tier.
func (p *DeskPanel) hedgePrice(side fx.Side, size float64) float64 {
	half := fx.PriceDelta(p.snap.TierSpreadsPips[fx.TierForSize(size)] / 2)
	if side == fx.SideBuy {
		return p.snap.Mid + half
	}
	return p.snap.Mid - half
}

// SetSnapshot updates the panel's data.
func (p *DeskPanel) SetSnapshot(snap game.Snapshot) {
	p.snap = snap
}

// View renders the panel.
func (p *DeskPanel) View() string {
	var b strings.Builder
	s := p.snap

	posStyle := styles.PnlStyle(s.Position.Amount)
	b.WriteString(fmt.Sprintf("pos %s",
		posStyle.Render(fmt.Sprintf("%+.0fm", s.Position.Amount))))
	if s.Position.Amount != 0 {
		b.WriteString(styles.MutedStyle.Render(" @ " + fx.FormatPrice(s.Position.AveragePrice)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("pnl %s  r %s  u %s\n",
		styles.PnlStyle(s.PnL.Total).Render(fx.FormatUSD(s.PnL.Total)),
		styles.PnlStyle(s.PnL.Realized).Render(fx.FormatUSD(s.PnL.Realized)),
		styles.PnlStyle(s.PnL.Unrealized).Render(fx.FormatUSD(s.PnL.Unrealized))))

	if s.Twap.Active {
		b.WriteString(styles.NewsImportantStyle.Render(fmt.Sprintf(
			"TWAP %s %.0fm left", s.Twap.Side.String(), s.Twap.Remaining)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderField(FieldSide,
		"side  "+styles.SideStyle(p.side == fx.SideBuy).Render(p.side.String())))
	b.WriteString(p.renderField(FieldSize, "size  "+p.sizeInput.View()))
	b.WriteString(p.renderField(FieldHedge, "[ hedge now ]"))
	b.WriteString(p.renderField(FieldSlice, "slice "+p.sliceInput.View()))
	twapLabel := "[ start twap ]"
	if p.snap.Twap.Active {
		twapLabel = "[ stop twap ]"
	}
	b.WriteString(p.renderField(FieldTwap, twapLabel))
	b.WriteString(p.renderField(FieldSkew, "skew  "+p.skewInput.View()))
	b.WriteString(p.renderField(FieldMinSpread, "min   "+p.minSpreadInput.View()))
	b.WriteString(p.renderField(FieldApply, "[ apply e-pricing ]"))

	if p.errText != "" {
		b.WriteString(styles.SellStyle.Render(p.errText) + "\n")
	}

	b.WriteString("\n" + styles.HeaderStyle.Render("recent trades") + "\n")
	trades := s.Trades
	maxRows := 4
	if len(trades) > maxRows {
		trades = trades[len(trades)-maxRows:]
	}
	if len(trades) == 0 {
		b.WriteString(styles.MutedStyle.Render("none"))
	}
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		b.WriteString(fmt.Sprintf("%s %s %s %s %s\n",
			styles.TimeStyle.Render(t.Time.Format("15:04:05")),
			styles.SideStyle(t.Side == fx.SideBuy).Render(fmt.Sprintf("%-4s", t.Side.String())),
			fx.FormatMillions(t.Size),
			fx.FormatPrice(t.Price),
			styles.MutedStyle.Render(t.Counterparty)))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Desk", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, b.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *DeskPanel) renderField(f DeskField, content string) string {
	if p.focused && p.currentField == f {
		return styles.SelectedRowStyle.Render(content) + "\n"
	}
	return styles.RowStyle.Render(content) + "\n"
}

// SetFocus sets the focus state of the panel.
func (p *DeskPanel) SetFocus(focused bool) {
	p.focused = focused
	if !focused {
		p.sizeInput.Blur()
		p.sliceInput.Blur()
		p.skewInput.Blur()
		p.minSpreadInput.Blur()
	} else {
		p.setField(p.currentField)
	}
}

// SetSize sets the panel dimensions.
func (p *DeskPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

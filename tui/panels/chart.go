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

// ChartPanel draws the recent mid-price history as a line chart.
type ChartPanel struct {
	history []game.PricePoint
	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// SetHistory replaces the plotted series.
func (p *ChartPanel) SetHistory(history []game.PricePoint) {
	p.history = history
}

// View renders the panel.
func (p *ChartPanel) View() string {
	plotW := p.width - 12 // room for the price axis
	plotH := p.height - 5
	if plotW < 10 {
		plotW = 10
	}
	if plotH < 3 {
		plotH = 3
	}

	var content string
	if len(p.history) < 2 {
		content = styles.MutedStyle.Render("Waiting for prices...")
	} else {
		content = p.plot(plotW, plotH)
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("EUR/USD", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// plot downsamples the series into plotW columns and renders one
// marker per column, with the high and low on the axis.
func (p *ChartPanel) plot(plotW, plotH int) string {
	series := p.history
	if len(series) > plotW {
		series = series[len(series)-plotW:]
	}

	lo, hi := series[0].Mid, series[0].Mid
	for _, pt := range series {
		if pt.Mid < lo {
			lo = pt.Mid
		}
		if pt.Mid > hi {
			hi = pt.Mid
		}
	}
	span := hi - lo
	if span <= 0 {
		span = fx.PipSize
	}

	grid := make([][]rune, plotH)
	for r := range grid {
		grid[r] = make([]rune, len(series))
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}
	for c, pt := range series {
		r := int((hi - pt.Mid) / span * float64(plotH-1))
		grid[r][c] = '•'
	}

	var b strings.Builder
	for r, row := range grid {
		label := "        "
		switch r {
		case 0:
			label = fmt.Sprintf("%8s", fx.FormatPrice(hi))
		case plotH - 1:
			label = fmt.Sprintf("%8s", fx.FormatPrice(lo))
		}
		b.WriteString(styles.ChartAxisStyle.Render(label + " "))
		b.WriteString(styles.ChartLineStyle.Render(string(row)))
		if r < plotH-1 {
			b.WriteString("\n")
		}
	}

	last := series[len(series)-1].Mid
	b.WriteString("\n" + styles.ChartLabelStyle.Render(
		fmt.Sprintf("last %s  range %.1fp", fx.FormatPrice(last), fx.Pips(span))))
	return b.String()
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

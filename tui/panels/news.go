package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/news"
	"github.com/voxline/dealerdesk/tui/styles"
)

// NewsPanel displays fired headlines and data releases, newest first.
type NewsPanel struct {
	items         []news.Item
	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
			if p.selectedIndex < p.scrollOffset {
				p.scrollOffset = p.selectedIndex
			}
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex < len(p.items)-1 {
			p.selectedIndex++
			visible := p.height - 4
			if p.selectedIndex >= p.scrollOffset+visible {
				p.scrollOffset = p.selectedIndex - visible + 1
			}
		}
	}
	return p, nil
}

// SetNews sets the displayed items.
func (p *NewsPanel) SetNews(items []news.Item) {
	p.items = items
	if p.selectedIndex >= len(p.items) {
		p.selectedIndex = len(p.items) - 1
		if p.selectedIndex < 0 {
			p.selectedIndex = 0
		}
	}
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.items) == 0 {
		content.WriteString(styles.MutedStyle.Render("No news yet"))
	} else {
		visible := p.height - 4
		if visible < 1 {
			visible = 1
		}
		start := p.scrollOffset
		end := start + visible
		if end > len(p.items) {
			end = len(p.items)
		}

		for i := start; i < end; i++ {
			item := p.items[i]

			timeStr := fmt.Sprintf("%02d:%02d", (item.GameMinute/60)%24, item.GameMinute%60)
			headline := item.Headline
			if maxLen := p.width - 14; maxLen > 3 && len(headline) > maxLen {
				headline = headline[:maxLen-3] + "..."
			}

			headlineStyle := styles.NewsNormalStyle
			if item.Kind == news.KindRelease {
				headlineStyle = styles.NewsImportantStyle
			}

			arrow := " "
			switch item.Direction {
			case news.Bullish:
				arrow = styles.BuyStyle.Render("▲")
			case news.Bearish:
				arrow = styles.SellStyle.Render("▼")
			}

			line := fmt.Sprintf("%s %s %s",
				styles.TimeStyle.Render(timeStr), arrow, headlineStyle.Render(headline))
			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}

			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if len(p.items) > visible {
			content.WriteString("\n" + styles.MutedStyle.Render(
				fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.items))))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("News", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

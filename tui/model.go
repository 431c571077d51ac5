// Package tui renders the dealer desk on a bubbletea terminal UI. It
// polls the game's published snapshot on a refresh tick and sends
// player actions back over the game's command API.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/tui/panels"
	"github.com/voxline/dealerdesk/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusPricer PanelFocus = 0
	FocusChart  PanelFocus = 1
	FocusNews   PanelFocus = 2
	FocusChat   PanelFocus = 3
	FocusRfqs   PanelFocus = 4
	FocusDesk   PanelFocus = 5

	panelCount = 6
)

const commandTimeout = 2 * time.Second

// Model is the main TUI application model.
type Model struct {
	game         *game.Game
	settingsPath string

	pricerPanel *panels.PricerPanel
	chartPanel  *panels.ChartPanel
	newsPanel   *panels.NewsPanel
	chatPanel   *panels.ChatPanel
	rfqPanel    *panels.RfqPanel
	deskPanel   *panels.DeskPanel

	focusedPanel PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model bound to a running game. A non-empty
// settingsPath is re-read on restart, so edits to the file take effect
// without leaving the game.
func NewModel(g *game.Game, settingsPath string) *Model {
	return &Model{
		game:         g,
		settingsPath: settingsPath,
		pricerPanel:  panels.NewPricerPanel(),
		chartPanel:   panels.NewChartPanel(),
		newsPanel:    panels.NewNewsPanel(),
		chatPanel:    panels.NewChatPanel(),
		rfqPanel:     panels.NewRfqPanel(),
		deskPanel:    panels.NewDeskPanel(),
		focusedPanel: FocusChat,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.pricerPanel.Init(),
		m.chartPanel.Init(),
		m.newsPanel.Init(),
		m.chatPanel.Init(),
		m.rfqPanel.Init(),
		m.deskPanel.Init(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % panelCount

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = panelCount - 1
			}

		case "f1":
			m.focusedPanel = FocusPricer
		case "f2":
			m.focusedPanel = FocusChart
		case "f3":
			m.focusedPanel = FocusNews
		case "f4":
			m.focusedPanel = FocusChat
		case "f5":
			m.focusedPanel = FocusRfqs
		case "f6":
			m.focusedPanel = FocusDesk

		case "ctrl+r":
			cmds = append(cmds, m.restart())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case panels.ChatSubmitMsg:
		cmds = append(cmds, m.submitChat(msg.Text))

	case panels.HedgeSubmitMsg:
		cmds = append(cmds, m.submitHedge(msg))

	case panels.TwapStartMsg:
		cmds = append(cmds, m.startTwap(msg))

	case panels.TwapStopMsg:
		cmds = append(cmds, m.stopTwap())

	case panels.RejectRfqMsg:
		cmds = append(cmds, m.rejectRfq(msg.ID))

	case panels.EPricingMsg:
		cmds = append(cmds, m.setEPricing(msg))

	case actionResultMsg:
		m.statusMsg = msg.message

	case tickMsg:
		m.refresh()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusPricer:
		m.pricerPanel, cmd = m.pricerPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusChat:
		m.chatPanel, cmd = m.chatPanel.Update(msg)
	case FocusRfqs:
		m.rfqPanel, cmd = m.rfqPanel.Update(msg)
	case FocusDesk:
		m.deskPanel, cmd = m.deskPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// refresh pulls the latest snapshot into every panel.
func (m *Model) refresh() {
	snap := m.game.Snapshot()
	m.pricerPanel.SetSnapshot(snap)
	m.chartPanel.SetHistory(snap.PriceHistory)
	m.newsPanel.SetNews(snap.News)
	m.chatPanel.SetSnapshot(snap)
	m.rfqPanel.SetSnapshot(snap)
	m.deskPanel.SetSnapshot(snap)
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.pricerPanel.SetFocus(m.focusedPanel == FocusPricer)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.chatPanel.SetFocus(m.focusedPanel == FocusChat)
	m.rfqPanel.SetFocus(m.focusedPanel == FocusRfqs)
	m.deskPanel.SetFocus(m.focusedPanel == FocusDesk)

	// Layout:
	// ┌──────────┬─────────────┬──────────┐
	// │  Pricer  │    Chart    │   News   │
	// ├──────────┼─────────────┼──────────┤
	// │   Chat   │   E-RFQs    │   Desk   │
	// ├──────────┴─────────────┴──────────┤
	// │            status bar             │
	// └───────────────────────────────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 1) / 2
	bottomHeight := m.height - topHeight - 1

	m.pricerPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(middleWidth, topHeight)
	m.newsPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pricerPanel.View(),
		m.chartPanel.View(),
		m.newsPanel.View(),
	)

	m.chatPanel.SetSize(leftWidth, bottomHeight)
	m.rfqPanel.SetSize(middleWidth, bottomHeight)
	m.deskPanel.SetSize(rightWidth, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.chatPanel.View(),
		m.rfqPanel.View(),
		m.deskPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F6") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" navigate"),
		styles.StatusBarKeyStyle.Render("Ctrl+R") + styles.StatusBarDescStyle.Render(" restart"),
		styles.StatusBarKeyStyle.Render("Ctrl+C") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) submitChat(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := m.game.HandleChatInput(ctx, text)
		switch {
		case errors.Is(err, game.ErrNoVoiceRfq):
			return actionResultMsg{message: "no request to answer"}
		case errors.Is(err, game.ErrQuoteTooWide):
			return actionResultMsg{message: "quote too far from market"}
		case errors.Is(err, game.ErrInvalidInput):
			return actionResultMsg{message: "say a price, pips, or 'ref'"}
		case err != nil:
			return actionResultMsg{message: err.Error()}
		}
		return actionResultMsg{message: ""}
	}
}

func (m *Model) submitHedge(msg panels.HedgeSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		trade, err := m.game.ExecuteHedge(ctx, msg.Side, msg.Size, msg.Price)
		if err != nil {
			return actionResultMsg{message: "hedge failed: " + err.Error()}
		}
		return actionResultMsg{message: "hedged " + trade.Side.String() + " at " + fx.FormatPrice(trade.Price)}
	}
}

func (m *Model) startTwap(msg panels.TwapStartMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := m.game.StartTwap(ctx, msg.Side, msg.Size, msg.SliceSize); err != nil {
			return actionResultMsg{message: "twap: " + err.Error()}
		}
		return actionResultMsg{message: "twap running"}
	}
}

func (m *Model) stopTwap() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := m.game.StopTwap(ctx); err != nil {
			return actionResultMsg{message: "twap: " + err.Error()}
		}
		return actionResultMsg{message: "twap stopped"}
	}
}

func (m *Model) rejectRfq(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := m.game.RejectElectronicRfq(ctx, id); err != nil {
			return actionResultMsg{message: "pass: " + err.Error()}
		}
		return actionResultMsg{message: "passed"}
	}
}

func (m *Model) setEPricing(msg panels.EPricingMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		p := game.EPricing{SkewPips: msg.SkewPips, MinSpreadPips: msg.MinSpreadPips}
		if err := m.game.SetEPricing(ctx, p); err != nil {
			return actionResultMsg{message: "e-pricing: " + err.Error()}
		}
		return actionResultMsg{message: "e-pricing applied"}
	}
}

func (m *Model) restart() tea.Cmd {
	path := m.settingsPath
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var settings *game.Settings
		if path != "" {
			s, err := game.LoadSettings(path)
			if err != nil {
				return actionResultMsg{message: "settings: " + err.Error()}
			}
			settings = s
		}
		if err := m.game.Restart(ctx, settings); err != nil {
			return actionResultMsg{message: "restart: " + err.Error()}
		}
		return actionResultMsg{message: "new session"}
	}
}

// tickMsg is sent periodically to refresh data.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// actionResultMsg reports the outcome of a player action.
type actionResultMsg struct {
	message string
}

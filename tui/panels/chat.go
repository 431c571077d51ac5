package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxline/dealerdesk/internal/fx"
	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/internal/rfq"
	"github.com/voxline/dealerdesk/tui/styles"
)

// ChatPanel is the sales chat: voice requests come in as messages and
// the player answers with quotes or call-off keywords.
type ChatPanel struct {
	input    textinput.Model
	messages []rfq.ChatMessage
	voiceRfq rfq.VoiceRfq
	hasRfq   bool
	now      time.Time

	focused bool
	width   int
	height  int
}

// NewChatPanel creates a new chat panel.
func NewChatPanel() *ChatPanel {
	input := textinput.New()
	input.Placeholder = "price, pips or 'ref'..."
	input.CharLimit = 32
	return &ChatPanel{input: input}
}

// Init initializes the panel.
func (p *ChatPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *ChatPanel) Update(msg tea.Msg) (*ChatPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		text := strings.TrimSpace(p.input.Value())
		if text == "" {
			return p, nil
		}
		p.input.Reset()
		return p, func() tea.Msg { return ChatSubmitMsg{Text: text} }
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// SetSnapshot updates the panel's data.
func (p *ChatPanel) SetSnapshot(snap game.Snapshot) {
	p.messages = snap.Chat
	p.voiceRfq = snap.VoiceRfq
	p.hasRfq = snap.HasVoiceRfq
	p.now = snap.Time
}

// View renders the panel.
func (p *ChatPanel) View() string {
	var b strings.Builder

	if p.hasRfq {
		r := p.voiceRfq
		remaining := r.ExpiryTime.Sub(p.now).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		line := fmt.Sprintf("%s %s %s  %s",
			r.Client.Name,
			styles.SideStyle(r.Side == fx.SideBuy).Render(r.Side.String()),
			fx.FormatMillions(r.Size),
			styles.TimeStyle.Render(remaining.String()))
		if r.Status == rfq.VoiceQuoted {
			line += styles.MutedStyle.Render("  quoted " + fx.FormatPrice(r.PlayerQuote))
		}
		b.WriteString(styles.HeaderStyle.Render(line) + "\n\n")
	}

	visible := p.height - 7
	if visible < 1 {
		visible = 1
	}
	msgs := p.messages
	if len(msgs) > visible {
		msgs = msgs[len(msgs)-visible:]
	}
	for _, m := range msgs {
		style := styles.ChatSalesStyle
		prefix := ""
		if m.Sender == rfq.SenderPlayer {
			style = styles.ChatPlayerStyle
			prefix = "> "
		}
		b.WriteString(styles.TimeStyle.Render(m.Time.Format("15:04:05")) + " " +
			style.Render(prefix+m.Text) + "\n")
	}

	b.WriteString("\n" + p.input.View())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Sales Chat", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, b.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel and its input.
func (p *ChatPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = width - 6
}

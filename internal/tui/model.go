package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recgate/internal/domain"
)

// Gateway is the TUI-facing subset of the gateway client.
type Gateway interface {
	Recommendations(ctx context.Context, userID string, k int) (*domain.Recommendation, error)
}

// Model is the Bubble Tea model for interactive recommendation lookups.
type Model struct {
	gateway  Gateway
	input    textinput.Model
	viewport viewport.Model
	rec      *domain.Recommendation
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(gateway Gateway) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "user id [k], e.g. alice 5"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{gateway: gateway, input: ti, viewport: vp, status: "Connected. Type a user id and press Enter."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderRecommendation())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			userID, k := parseQuery(m.input.Value())
			if userID != "" {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				rec, err := m.gateway.Recommendations(ctx, userID, k)
				cancel()
				if err != nil {
					m.status = "Error: " + err.Error()
					m.rec = nil
				} else {
					m.status = fmt.Sprintf("Recommendations for %q (k=%d)", userID, k)
					m.rec = rec
				}
				m.viewport.SetContent(m.renderRecommendation())
				return m, nil
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current recommendation.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("recgate lookup")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	result := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + result + "\n" + input + "\n" + status
}

func (m Model) renderRecommendation() string {
	if m.rec == nil {
		return "No lookup yet."
	}
	var b strings.Builder
	b.WriteString(topStyle.Render("Campaigns") + "\n")
	if len(m.rec.RecommendedCampaigns) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, c := range m.rec.RecommendedCampaigns {
		line := fmt.Sprintf("  %2d. %s  engagements=%d", i+1, c.CampaignID, c.Score)
		if i == 0 {
			line = topStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + topStyle.Render("Similar users") + "\n")
	if len(m.rec.SimilarUsers) == 0 {
		b.WriteString("  (none)\n")
	} else {
		b.WriteString("  " + strings.Join(m.rec.SimilarUsers, ", ") + "\n")
	}
	return b.String()
}

func parseQuery(raw string) (string, int) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return "", 0
	}
	k := 5
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			k = n
		}
	}
	return fields[0], k
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	topStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

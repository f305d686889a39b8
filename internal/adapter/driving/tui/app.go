// Package tui renders the pull request status panel in the terminal.
// It is a thin consumer of the poll service's view model: a periodic tick
// re-reads the snapshot, and keystrokes trigger manual refreshes.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/prpanel/internal/application"
	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(1)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginLeft(1)

	dimStyle  = lipgloss.NewStyle().Faint(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(1)
)

// — messages ————————————————————————————————————————————————————————————————

type tickMsg time.Time

type refreshDoneMsg struct {
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// — model ———————————————————————————————————————————————————————————————————

// Model is the bubbletea model for the status panel.
type Model struct {
	svc      *application.PollService
	snapshot model.StatusSnapshot
	spin     spinner.Model

	width      int
	height     int
	refreshing bool
}

// NewModel creates the panel model bound to the given poll service.
func NewModel(svc *application.PollService) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		svc:      svc,
		snapshot: svc.Snapshot(),
		spin:     sp,
	}
}

// Init starts the snapshot tick and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spin.Tick)
}

// Update handles keys, ticks, and refresh completions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			svc := m.svc
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				return refreshDoneMsg{err: svc.Refresh(ctx)}
			}
		}

	case tickMsg:
		m.snapshot = m.svc.Snapshot()
		return m, tickCmd()

	case refreshDoneMsg:
		m.refreshing = false
		m.snapshot = m.svc.Snapshot()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	header := titleStyle.Render("prpanel")
	if m.snapshot.Badge > 0 {
		header += "  " + badgeStyle.Render(fmt.Sprintf("%d", m.snapshot.Badge))
	}
	if m.refreshing {
		header += "  " + dimStyle.Render(m.spin.View()+" refreshing")
	}

	body := m.renderBody()

	help := helpStyle.Render("r refresh • q quit")

	return header + "\n\n" + body + "\n" + help
}

func (m Model) renderBody() string {
	switch m.snapshot.State {
	case model.ViewStateLoading:
		return dimStyle.Render(" " + m.spin.View() + " loading…")

	case model.ViewStateUnconfigured:
		return warnStyle.Render(" no access token configured") + "\n" +
			dimStyle.Render(" set PRPANEL_GITHUB_TOKEN or write a token file")

	case model.ViewStateError:
		out := errStyle.Render(" error: " + m.snapshot.Message)
		if m.snapshot.Buckets != nil {
			out += "\n" + dimStyle.Render(" showing last good data") + "\n\n" + renderBuckets(*m.snapshot.Buckets)
		}
		return out

	default:
		if m.snapshot.Buckets == nil {
			return dimStyle.Render(" no data")
		}
		return renderBuckets(*m.snapshot.Buckets)
	}
}

// renderBuckets renders the four status sections, skipping empty ones.
func renderBuckets(b model.Buckets) string {
	if b.Total() == 0 {
		return dimStyle.Render(" no open pull requests")
	}

	var out string
	out += renderSection("Approved", b.Approved)
	out += renderSection("Changes requested", b.ChangesRequested)
	out += renderSection("Review required", b.ReviewRequired)
	out += renderSection("Draft", b.Draft)
	return out
}

func renderSection(title string, prs []model.PullRequest) string {
	if len(prs) == 0 {
		return ""
	}

	out := sectionStyle.Render(fmt.Sprintf("%s (%d)", title, len(prs))) + "\n"
	for _, pr := range prs {
		out += fmt.Sprintf("  #%-5d %s  %s %s\n",
			pr.Number,
			dimStyle.Render(pr.RepoFullName()),
			pr.Title,
			ciIndicator(pr.CIStatus),
		)
	}
	return out + "\n"
}

// ciIndicator maps the aggregate CI state to a colored glyph. No rollup
// renders as nothing at all.
func ciIndicator(status model.CIStatus) string {
	switch status {
	case model.CIStatusSuccess:
		return okStyle.Render("✓")
	case model.CIStatusFailure:
		return errStyle.Render("✗")
	case model.CIStatusPending:
		return warnStyle.Render("●")
	default:
		return ""
	}
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tapo-chatter/tapo-chatter/internal/device"
)

// SnapshotMsg delivers a fresh child list to the live view
type SnapshotMsg struct {
	Children []device.ChildRecord
	Time     time.Time
}

// FailureMsg reports a failed refresh to the live view
type FailureMsg struct {
	Err  error
	Time time.Time
}

// liveKeyMap defines key bindings for the live monitor view
type liveKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k liveKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k liveKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// LiveModel is the Bubble Tea model for `monitor`. It shows the latest
// child table and refreshes whenever a SnapshotMsg arrives.
type LiveModel struct {
	Host     string
	Interval time.Duration

	Children []device.ChildRecord
	Updated  time.Time
	LastErr  error
	Failures int

	// Quitting is set when the user asked to leave
	Quitting bool

	Width   int
	Spinner spinner.Model
	Help    help.Model
	Keys    liveKeyMap
}

// NewLiveModel creates the live monitor view for host
func NewLiveModel(host string, interval time.Duration) LiveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return LiveModel{
		Host:     host,
		Interval: interval,
		Width:    MaxContentWidth,
		Spinner:  s,
		Help:     help.New(),
		Keys: liveKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init implements tea.Model
func (m LiveModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update implements tea.Model
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case SnapshotMsg:
		m.Children = msg.Children
		m.Updated = msg.Time
		m.LastErr = nil
		return m, nil

	case FailureMsg:
		m.LastErr = msg.Err
		m.Failures++
		if m.Updated.IsZero() {
			m.Updated = msg.Time
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m LiveModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s\n\n",
		m.Spinner.View(),
		HeaderTitleStyle.Render(fmt.Sprintf("Monitoring hub %s every %s", m.Host, m.Interval)),
	))

	switch {
	case m.Updated.IsZero():
		b.WriteString(ProgressLabelStyle.Render("Waiting for the first update..."))
		b.WriteString("\n")
	case len(m.Children) == 0 && m.LastErr == nil:
		b.WriteString(WarningTitleStyle.Render("  No child devices found"))
		b.WriteString("\n")
	case len(m.Children) > 0:
		b.WriteString(ChildTable(m.Children))
		b.WriteString("\n")
	}

	if m.LastErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorMessageStyle.Render("  Last refresh failed: " + m.LastErr.Error()))
		b.WriteString("\n")
	}

	footer := "Press q to quit"
	if !m.Updated.IsZero() {
		footer = "Last updated " + m.Updated.Format("15:04:05")
	}
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(footer))
	b.WriteString("  ")
	b.WriteString(m.Help.View(m.Keys))
	b.WriteString("\n")

	return b.String()
}

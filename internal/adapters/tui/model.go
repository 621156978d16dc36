// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// Session is the focus core behind the screen. All methods are called from
// the bubbletea Update goroutine, which owns the session.
type Session interface {
	// Tick runs the frame callbacks queued by the timer.
	Tick()
	Display() domain.DisplayState
	SkipCurrent() error
	CompleteCurrent(ctx context.Context) error
	Refresh(ctx context.Context) error
}

type frameSession struct {
	*focus.Controller
	frames *focus.Frames
}

func (s frameSession) Tick() { s.frames.Run() }

// NewSession binds a controller to the frames its timer is scheduled on.
func NewSession(frames *focus.Frames, ctrl *focus.Controller) Session {
	return frameSession{Controller: ctrl, frames: frames}
}

// tickMsg is sent on every frame.
type tickMsg time.Time

// Options configures the focus screen.
type Options struct {
	Theme *config.ThemeConfig
	// Tick is the frame period; zero means focus.DefaultFramePeriod.
	Tick   time.Duration
	Inline bool

	NotificationsEnabled bool
	NotificationToggle   func(bool)
}

// Model represents the TUI state.
type Model struct {
	ctx     context.Context
	session Session
	display domain.DisplayState
	width   int
	height  int
	period  time.Duration
	theme   config.ThemeConfig
	inline  bool

	confirmDone bool
	lastErr     error

	// Notifications
	notificationsEnabled bool
	notificationToggle   func(bool)
}

// NewModel creates a new TUI model over session.
func NewModel(ctx context.Context, session Session, opts Options) Model {
	period := opts.Tick
	if period <= 0 {
		period = focus.DefaultFramePeriod
	}
	m := Model{
		ctx:                  ctx,
		session:              session,
		display:              session.Display(),
		period:               period,
		theme:                resolveTheme(opts.Theme),
		inline:               opts.Inline,
		notificationsEnabled: opts.NotificationsEnabled,
		notificationToggle:   opts.NotificationToggle,
	}
	if m.inline {
		m.width = getTerminalWidth()
	}
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.period)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.session.Tick()
		m.display = m.session.Display()
		return m, tickCmd(m.period)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.notificationsEnabled = !m.notificationsEnabled
		if m.notificationToggle != nil {
			m.notificationToggle(m.notificationsEnabled)
		}
		return m, nil
	case "s":
		m.confirmDone = false
		err = m.session.SkipCurrent()
	case "r":
		m.confirmDone = false
		err = m.session.Refresh(m.ctx)
	case "d":
		if m.display.TaskID == "" {
			return m, nil
		}
		if !m.confirmDone {
			m.confirmDone = true
			return m, nil
		}
		m.confirmDone = false
		err = m.session.CompleteCurrent(m.ctx)
	default:
		m.confirmDone = false
		return m, nil
	}

	m.lastErr = err
	m.display = m.session.Display()
	return m, nil
}

// Display returns the last state shown.
func (m Model) Display() domain.DisplayState {
	return m.display
}

// phaseColor returns the accent color for the current phase.
func (m Model) phaseColor() lipgloss.Color {
	switch {
	case m.display.Phase == domain.PhaseWaiting:
		return lipgloss.Color(m.theme.ColorWaiting)
	case m.display.IsOnBreak:
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorWork)
	}
}

// progressBar builds a bar with the gradient of the current phase.
func (m Model) progressBar(width int) progress.Model {
	var pbar progress.Model
	if m.display.IsOnBreak {
		pbar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	} else {
		pbar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	if width < 20 {
		width = 20
	}
	pbar.Width = width
	return pbar
}

// View renders the TUI.
func (m Model) View() string {
	if m.inline {
		return m.viewInline()
	}
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render("Focus"))

	switch m.display.Phase {
	case domain.PhaseActive:
		sections = m.viewActive(sections)
	case domain.PhaseWaiting:
		sections = m.viewWaiting(sections)
	case domain.PhaseAllDone:
		sections = m.viewAllDone(sections)
	default:
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
		sections = append(sections, helpStyle.Render("No tasks loaded"))
		sections = append(sections, "")
		sections = append(sections, helpStyle.Render("[r]efresh  [q]uit"))
	}

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))
		sections = append(sections, "")
		sections = append(sections, errStyle.Render("Error: "+m.lastErr.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewActive(sections []string) []string {
	d := m.display
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	statusStyle := lipgloss.NewStyle().Foreground(m.phaseColor())
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections = append(sections, taskStyle.Render(d.TaskName))
	if d.TaskRange != "" {
		sections = append(sections, helpStyle.Render(d.TaskRange))
	}

	sections = append(sections, "")
	sections = append(sections, statusStyle.Render(intervalLabel(d)))
	sections = append(sections, "")
	sections = append(sections, renderBigTime(focus.FormatRemaining(d.RemainingTimeSeconds), m.phaseColor(), m.width))

	sections = append(sections, "")
	sections = append(sections, m.progressBar(m.width-4).ViewAs(d.ProgressFraction))
	if strip := renderStrip(d, m.theme, m.width-4); strip != "" {
		sections = append(sections, strip)
	}
	if d.Skipped > 0 {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%d skipped", d.Skipped)))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.helpText()))
	return sections
}

func (m Model) helpText() string {
	if m.confirmDone {
		return "Mark task done? [d] confirm  [esc] cancel"
	}
	notifLabel := "off"
	if m.notificationsEnabled {
		notifLabel = "on"
	}
	if m.display.TaskID == "" {
		return fmt.Sprintf("[r]efresh  [q]uit  tab:notify %s", notifLabel)
	}
	return fmt.Sprintf("[s]kip  [d]one  [r]efresh  [q]uit  tab:notify %s", notifLabel)
}

// intervalLabel describes the active interval, e.g. "Work 3/5".
func intervalLabel(d domain.DisplayState) string {
	iv, ok := d.ActiveInterval()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %d/%d", iv.Kind.Label(), d.ActiveIntervalIndex+1, len(d.Intervals))
}

// tickCmd creates a command that sends a tick message.
func tickCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	return focus.FormatRemaining(int(d.Seconds()))
}

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{25 * time.Minute, "25:00"},
		{5 * time.Minute, "05:00"},
		{90 * time.Second, "01:30"},
		{0, "00:00"},
		{75 * time.Minute, "01:15:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestFormatMinutesCompact(t *testing.T) {
	if got := formatMinutesCompact(25 * time.Minute); got != "25m" {
		t.Errorf("formatMinutesCompact(25m) = %q", got)
	}
	if got := formatMinutesCompact(90 * time.Minute); got != "1h30m" {
		t.Errorf("formatMinutesCompact(90m) = %q", got)
	}
}

func TestResolveTheme(t *testing.T) {
	resolved := resolveTheme(&config.ThemeConfig{ColorWork: "#000000"})
	defaults := config.DefaultThemeConfig()

	if resolved.ColorWork != "#000000" {
		t.Error("resolveTheme should keep set colors")
	}
	if resolved.ColorBreak != defaults.ColorBreak {
		t.Error("resolveTheme should fill empty colors with defaults")
	}
	if resolveTheme(nil) != defaults {
		t.Error("resolveTheme(nil) should return the defaults")
	}
}

func TestRenderBigTime(t *testing.T) {
	big := renderBigTime("25:00", lipgloss.Color("#FFFFFF"), 80)
	if lines := strings.Split(big, "\n"); len(lines) != glyphHeight {
		t.Errorf("renderBigTime() has %d lines, want %d", len(lines), glyphHeight)
	}

	narrow := renderBigTime("25:00", lipgloss.Color("#FFFFFF"), 30)
	if strings.Contains(narrow, "\n") || !strings.Contains(narrow, "25:00") {
		t.Errorf("renderBigTime() on a narrow terminal = %q, want the plain time", narrow)
	}

	hours := renderBigTime("01:15:00", lipgloss.Color("#FFFFFF"), 40)
	if lines := strings.Split(hours, "\n"); len(lines) != glyphHeight {
		t.Errorf("renderBigTime() with hours has %d lines, want %d", len(lines), glyphHeight)
	}

	wide := renderBigTime("0000000000", lipgloss.Color("#FFFFFF"), 50)
	if strings.Contains(wide, "\n") {
		t.Error("renderBigTime() should fall back when the blocks do not fit")
	}
}

func TestRenderStrip(t *testing.T) {
	d := activeDisplay()
	d.ActiveIntervalIndex = 1

	strip := renderStrip(d, config.DefaultThemeConfig(), 80)
	if !strings.Contains(strip, "▶") {
		t.Error("strip should mark the active interval")
	}
	if got := strings.Count(strip, "█") + strings.Count(strip, "░") + strings.Count(strip, "▶"); got != 3 {
		t.Errorf("strip has %d cells, want 3", got)
	}

	if renderStrip(domain.DisplayState{}, config.DefaultThemeConfig(), 80) != "" {
		t.Error("strip should be empty without intervals")
	}

	for i := 0; i < 60; i++ {
		d.Intervals = append(d.Intervals, domain.Interval{Kind: domain.IntervalWork})
	}
	if strip := renderStrip(d, config.DefaultThemeConfig(), 20); !strings.Contains(strip, "…") {
		t.Error("a long strip should be cut")
	}
}

func TestIntervalLabel(t *testing.T) {
	d := activeDisplay()
	if got := intervalLabel(d); got != "Work 1/3" {
		t.Errorf("intervalLabel() = %q, want Work 1/3", got)
	}
	d.ActiveIntervalIndex = 1
	if got := intervalLabel(d); got != "Break 2/3" {
		t.Errorf("intervalLabel() = %q, want Break 2/3", got)
	}
	if got := intervalLabel(allDoneDisplay()); got != "" {
		t.Errorf("intervalLabel() with no interval = %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		d    domain.DisplayState
		want string
	}{
		{"active", activeDisplay(), "Work 1/3  20:00  Write report (09:00 - 10:00)"},
		{"waiting", domain.DisplayState{
			Phase:                domain.PhaseWaiting,
			TaskName:             domain.WaitingText("Review"),
			TaskRange:            "10:30 - 11:00",
			RemainingTimeSeconds: 600,
			ActiveIntervalIndex:  -1,
		}, "On break, next: Review  starts in 10:00 (10:30 - 11:00)"},
		{"all done", allDoneDisplay(), "All tasks complete"},
		{"idle", domain.DisplayState{}, "No tasks loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.d, 0); got != tt.want {
				t.Errorf("StatusLine() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := StatusLine(activeDisplay(), 10); lipgloss.Width(got) > 10 {
		t.Errorf("StatusLine() width = %d, want <= 10", lipgloss.Width(got))
	}
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(activeDisplay())
	for _, want := range []string{"Focusing: Write report", "Remaining: 20:00", "Progress: 20%", "Plan: 25m work, 5m break, 30m work"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStatus() missing %q in:\n%s", want, out)
		}
	}

	d := allDoneDisplay()
	d.Skipped = 2
	out = RenderStatus(d)
	if !strings.Contains(out, domain.AllTasksCompleteText) || !strings.Contains(out, "Skipped: 2") {
		t.Errorf("RenderStatus(all done) = %q", out)
	}
}

func TestModel_View_Phases(t *testing.T) {
	waiting := domain.DisplayState{
		Phase:                domain.PhaseWaiting,
		TaskID:               "b",
		TaskName:             domain.WaitingText("Review"),
		RemainingTimeSeconds: 600,
		IsOnBreak:            true,
		ActiveIntervalIndex:  -1,
	}

	tests := []struct {
		name string
		d    domain.DisplayState
		want string
	}{
		{"active", activeDisplay(), "Write report"},
		{"waiting", waiting, "On break, next: Review"},
		{"all done", allDoneDisplay(), domain.AllTasksCompleteText},
		{"idle", domain.DisplayState{}, "No tasks loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newTestModel(&fakeSession{display: tt.d}).View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("View() missing %q", tt.want)
			}
		})
	}
}

func TestModel_View_Inline(t *testing.T) {
	m := NewModel(context.Background(), &fakeSession{display: activeDisplay()}, Options{Inline: true})

	view := m.View()
	if !strings.Contains(view, "Work 1/3  20:00") {
		t.Errorf("inline View() = %q", view)
	}
	if !strings.Contains(view, "20%") {
		t.Error("inline View() should show the progress percentage")
	}
	if lines := strings.Count(view, "\n"); lines != 3 {
		t.Errorf("inline View() has %d lines, want 3", lines)
	}
}

func TestPicker_Filter(t *testing.T) {
	items := []PickerItem{
		{Label: "Write report", Desc: "09:00 - 10:00"},
		{Label: "Review PRs", Desc: "10:30 - 11:00"},
		{Label: "Reply to email"},
	}
	m := newPickerModel("Task:", items, "", config.DefaultThemeConfig())
	if len(m.matches) != 3 || m.selected() != 0 {
		t.Fatalf("unfiltered picker matches = %v", m.matches)
	}

	for _, r := range "rvw" {
		result, _ := m.Update(key(string(r)))
		m = result.(pickerModel)
	}
	if m.selected() != 1 {
		t.Errorf("filter \"rvw\" selected %d, want 1 (Review PRs)", m.selected())
	}

	result, _ := m.Update(key("z"))
	m = result.(pickerModel)
	if m.selected() != -1 {
		t.Error("no item should match \"rvwz\"")
	}
	result, cmd := m.Update(key("enter"))
	m = result.(pickerModel)
	if cmd != nil {
		t.Error("enter with no match should not quit")
	}
	if !strings.Contains(m.View(), "no match") {
		t.Error("View should say nothing matches")
	}
}

func TestPicker_Navigate(t *testing.T) {
	items := []PickerItem{{Label: "a"}, {Label: "b"}}
	m := newPickerModel("Task:", items, "", config.DefaultThemeConfig())

	result, _ := m.Update(key("down"))
	m = result.(pickerModel)
	result, _ = m.Update(key("down"))
	m = result.(pickerModel)
	if m.selected() != 1 {
		t.Errorf("selected = %d, want 1 (cursor stops at the end)", m.selected())
	}

	result, _ = m.Update(key("esc"))
	if !result.(pickerModel).aborted {
		t.Error("esc should abort")
	}
}

// TestSession_DrivesController runs the screen over a real controller and
// checks that frame ticks move the countdown.
func TestSession_DrivesController(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)}
	frames := focus.NewFrames()
	ctrl := focus.NewController(frames, clock, focus.ControllerOptions{
		Location: time.UTC,
		Settings: domain.DefaultModeSettings(),
	})

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task := domain.Task{ID: "a", Title: "Write report", ListID: domain.DefaultListID, Status: domain.StatusPending}
	task.Schedule(start, start.Add(time.Hour))
	ctrl.SetTasks([]domain.Task{task})

	m := newTestModel(&fakeSession{})
	m.session = NewSession(frames, ctrl)
	m.display = m.session.Display()
	if m.display.RemainingTimeSeconds != 1200 {
		t.Fatalf("remaining = %d, want 1200", m.display.RemainingTimeSeconds)
	}

	clock.now = clock.now.Add(time.Minute)
	result, _ := m.Update(tickMsg(clock.now))
	m = result.(Model)
	if m.display.RemainingTimeSeconds != 1140 {
		t.Errorf("remaining after a minute = %d, want 1140", m.display.RemainingTimeSeconds)
	}

	m, _ = press(t, m, "s")
	if m.display.Phase != domain.PhaseAllDone {
		t.Errorf("phase after skipping the only task = %v, want all_done", m.display.Phase)
	}
}

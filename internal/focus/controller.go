package focus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/schedule"
)

// ControllerOptions wires a Controller to its collaborators. Only Location
// is required; nil collaborators are skipped.
type ControllerOptions struct {
	ListID   string
	Location *time.Location
	Settings domain.ModeSettings
	Source   ports.TaskSource
	Status   ports.TaskStatusChanger
	Notifier ports.IntervalNotifier
	Recorder ports.IntervalRecorder
	Logger   *slog.Logger
}

// Controller picks the task to focus on, partitions it into intervals and
// drives the timer through them. When a task runs out of intervals it moves
// on to the next one, until none is left.
type Controller struct {
	clock    ports.Clock
	loc      *time.Location
	listID   string
	settings domain.ModeSettings
	source   ports.TaskSource
	status   ports.TaskStatusChanger
	notifier ports.IntervalNotifier
	recorder ports.IntervalRecorder
	logger   *slog.Logger
	timer    *Timer

	tasks     []domain.Task
	mainTasks []domain.Task
	current   *domain.Task
	intervals []domain.Interval
	phase     domain.Phase

	// skipped is cleared by Refresh; finished holds tasks whose intervals
	// ran out this session so they are not picked again.
	skipped  schedule.SkippedSet
	finished schedule.SkippedSet

	onDisplay func(domain.DisplayState)
}

// NewController creates an idle controller. Call SetTasks or Refresh to
// start scheduling.
func NewController(scheduler Scheduler, clock ports.Clock, opts ControllerOptions) *Controller {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		clock:    clock,
		loc:      loc,
		listID:   opts.ListID,
		settings: opts.Settings,
		source:   opts.Source,
		status:   opts.Status,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		logger:   logger.With("component", "focus"),
		timer:    NewTimer(scheduler, clock, loc),
		phase:    domain.PhaseIdle,
		skipped:  schedule.NewSkippedSet(),
		finished: schedule.NewSkippedSet(),
	}
	c.timer.OnChange(func(domain.TimerState) { c.publish() })
	return c
}

// OnDisplay sets the function that receives a display snapshot on every tick
// and transition.
func (c *Controller) OnDisplay(fn func(domain.DisplayState)) {
	c.onDisplay = fn
}

// SetTasks replaces the task snapshot and reschedules.
func (c *Controller) SetTasks(tasks []domain.Task) {
	c.tasks = append([]domain.Task(nil), tasks...)
	c.update()
}

// SetSettings replaces the mode settings and reschedules.
func (c *Controller) SetSettings(settings domain.ModeSettings) {
	c.settings = settings
	c.update()
}

// Settings returns the mode settings in use.
func (c *Controller) Settings() domain.ModeSettings {
	return c.settings
}

// Skip defers a task for the rest of the session.
func (c *Controller) Skip(taskID string) {
	c.skipped.Add(taskID)
	c.logger.Info("task skipped", "task_id", taskID)
	c.update()
}

// SkipCurrent skips the task currently selected.
func (c *Controller) SkipCurrent() error {
	if c.current == nil {
		return domain.ErrNoCurrentTask
	}
	c.Skip(c.current.ID)
	return nil
}

// Refresh forgets skipped and finished tasks, reloads the candidates from
// the task source and reschedules.
func (c *Controller) Refresh(ctx context.Context) error {
	c.skipped.Clear()
	c.finished.Clear()

	if c.source == nil {
		c.update()
		return nil
	}
	tasks, err := c.source.CandidateTasks(ctx, c.listID)
	if err != nil {
		c.update()
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	c.SetTasks(tasks)
	return nil
}

// CompleteCurrent marks the current task completed through the status
// changer and moves on to the next task.
func (c *Controller) CompleteCurrent(ctx context.Context) error {
	if c.current == nil {
		return domain.ErrNoCurrentTask
	}
	if c.status != nil {
		change := domain.TaskStatusChange{Status: domain.StatusCompleted}
		if err := c.status.ChangeTaskStatus(ctx, c.current.ID, change); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
	}
	c.logger.Info("task completed", "task_id", c.current.ID, "title", c.current.Title)
	c.advance()
	return nil
}

// Close stops the countdown.
func (c *Controller) Close() {
	c.timer.Stop()
}

// CurrentTask returns a copy of the selected task, or nil.
func (c *Controller) CurrentTask() *domain.Task {
	if c.current == nil {
		return nil
	}
	task := *c.current
	return &task
}

// Display returns the current display snapshot.
func (c *Controller) Display() domain.DisplayState {
	st := c.timer.State()
	d := domain.DisplayState{
		Phase:                c.phase,
		ActiveIntervalIndex:  -1,
		RemainingTimeSeconds: st.RemainingTimeSeconds,
		IsOnBreak:            st.IsOnBreak,
		ProgressFraction:     c.timer.ProgressFraction(),
		Skipped:              c.skipped.Len(),
	}
	if c.current != nil {
		d.TaskID = c.current.ID
		d.TaskRange = schedule.FormatRange(c.current, c.loc)
	}

	switch c.phase {
	case domain.PhaseAllDone:
		d.TaskName = domain.AllTasksCompleteText
	case domain.PhaseWaiting:
		d.TaskName = domain.WaitingText(c.current.Title)
	case domain.PhaseActive:
		d.TaskName = c.current.Title
		d.Intervals = append([]domain.Interval(nil), c.intervals...)
		d.ActiveIntervalIndex = st.CurrentIntervalIndex
	}
	return d
}

func (c *Controller) update() {
	c.reselect()
	c.derive()
}

// reselect keeps the current task while it is still a valid candidate and
// otherwise picks the next one.
func (c *Controller) reselect() {
	c.mainTasks = schedule.FilterActiveMainTasks(c.tasks, c.listID, c.settings)

	if c.current != nil && !c.excluded(c.current.ID) {
		for i := range c.mainTasks {
			if c.mainTasks[i].ID == c.current.ID {
				task := c.mainTasks[i]
				c.current = &task
				return
			}
		}
	}
	c.current = schedule.SelectNext(c.mainTasks, c.exclusions(), c.clock.Now(), c.loc)
}

// derive rebuilds the intervals of the current task and points the timer at
// the right end time: the task start while waiting, the next unfinished
// interval while active.
func (c *Controller) derive() {
	c.timer.Stop()
	now := c.clock.Now()

	if c.current == nil {
		c.phase = domain.PhaseAllDone
		c.intervals = nil
		c.timer.Reset()
		return
	}
	task := c.current

	if !schedule.HasTaskStartedByClock(now, task, c.loc) {
		if task.Start == nil {
			c.logger.Warn("task has no start time", "task_id", task.ID)
			c.advance()
			return
		}
		start := schedule.AnchorAt(now, *task.Start, c.loc)
		wait := schedule.RemainingSecondsUntil(now, start, c.loc)
		c.phase = domain.PhaseWaiting
		c.intervals = nil
		c.timer.UpdateState(patch(-1, start, wait, true))
		c.timer.Start(start, c.waitingOver)
		c.logger.Debug("waiting for task", "task_id", task.ID, "starts_at", start)
		return
	}

	c.intervals = schedule.Partition(task, c.settings, now, c.loc)
	c.phase = domain.PhaseActive
	next := schedule.FindNextInterval(c.intervals, now)
	if next < 0 {
		c.advance()
		return
	}
	c.startInterval(next)
}

func (c *Controller) startInterval(idx int) {
	iv := c.intervals[idx]
	c.timer.UpdateState(patch(idx, iv.EndTime, iv.DurationSeconds, iv.IsBreak()))
	c.timer.Start(iv.EndTime, c.intervalOver)
	c.logger.Debug("interval started",
		"task_id", c.current.ID,
		"index", idx,
		"kind", iv.Kind,
		"ends_at", iv.EndTime,
	)
}

func (c *Controller) intervalOver() {
	if c.current == nil {
		return
	}
	now := c.clock.Now()
	next := schedule.FindNextInterval(c.intervals, now)

	if idx := c.timer.State().CurrentIntervalIndex; idx >= 0 && idx < len(c.intervals) {
		c.notify(c.intervals[idx], c.current.Title)

		// Intervals that ended while no frame ran still happened.
		last := next
		if last < 0 {
			last = len(c.intervals)
		}
		for i := idx; i < last; i++ {
			if i > idx && c.intervals[i].EndTime.After(now) {
				break
			}
			c.record(c.intervals[i], c.current)
		}
	}

	if next >= 0 {
		c.startInterval(next)
		return
	}
	c.advance()
}

func (c *Controller) waitingOver() {
	if c.current == nil {
		return
	}
	st := c.timer.State()
	iv := domain.Interval{
		Kind:            domain.IntervalBreak,
		DurationSeconds: st.CurrentIntervalDurationSeconds,
	}
	if st.CurrentIntervalEndTime != nil {
		iv.EndTime = *st.CurrentIntervalEndTime
		iv.StartTime = iv.EndTime.Add(-time.Duration(iv.DurationSeconds) * time.Second)
	}
	c.notify(iv, c.current.Title)
	c.derive()
}

// advance retires the current task for this session and selects the next.
func (c *Controller) advance() {
	if c.current != nil {
		c.finished.Add(c.current.ID)
	}
	c.current = schedule.SelectNext(c.mainTasks, c.exclusions(), c.clock.Now(), c.loc)
	if c.current != nil {
		c.logger.Info("task started", "task_id", c.current.ID, "title", c.current.Title)
	} else {
		c.logger.Info("all tasks complete")
	}
	c.derive()
}

func (c *Controller) excluded(id string) bool {
	return c.skipped.Has(id) || c.finished.Has(id)
}

func (c *Controller) exclusions() schedule.SkippedSet {
	ids := append(c.skipped.IDs(), c.finished.IDs()...)
	return schedule.NewSkippedSet(ids...)
}

func (c *Controller) notify(iv domain.Interval, title string) {
	if c.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("interval notifier panicked", "panic", r)
		}
	}()
	if err := c.notifier.IntervalFinished(iv, title); err != nil {
		c.logger.Warn("interval notification failed", "error", err)
	}
}

func (c *Controller) record(iv domain.Interval, task *domain.Task) {
	if c.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("interval recorder panicked", "panic", r)
		}
	}()
	rec := domain.IntervalRecord{
		ID:              domain.NewID(),
		TaskID:          task.ID,
		TaskTitle:       task.Title,
		Kind:            iv.Kind,
		DurationSeconds: iv.DurationSeconds,
		StartedAt:       iv.StartTime,
		EndedAt:         iv.EndTime,
	}
	if err := c.recorder.RecordInterval(context.Background(), rec); err != nil {
		c.logger.Warn("failed to record interval", "error", err)
	}
}

func (c *Controller) publish() {
	if c.onDisplay != nil {
		c.onDisplay(c.Display())
	}
}

func patch(idx int, end time.Time, duration int, onBreak bool) domain.TimerPatch {
	return domain.TimerPatch{
		RemainingTimeSeconds:           &duration,
		CurrentIntervalIndex:           &idx,
		CurrentIntervalEndTime:         &end,
		CurrentIntervalDurationSeconds: &duration,
		IsOnBreak:                      &onBreak,
	}
}

// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string) error
	beep   func() error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// Ensure Notifier implements ports.IntervalNotifier.
var _ ports.IntervalNotifier = (*Notifier)(nil)

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	if err := n.notify(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		if err := n.beep(); err != nil {
			return fmt.Errorf("failed to beep: %w", err)
		}
	}
	return nil
}

// IntervalFinished announces the end of a work interval, a break or a wait
// for the next task.
func (n *Notifier) IntervalFinished(interval domain.Interval, taskTitle string) error {
	title, message := Message(interval, taskTitle)
	return n.Notify(title, message)
}

// Message builds the notification text for a finished interval.
func Message(interval domain.Interval, taskTitle string) (title, message string) {
	minutes := interval.DurationSeconds / 60
	if interval.IsBreak() {
		return "Break over", fmt.Sprintf("Back to %s.", taskTitle)
	}
	return "Time for a break", fmt.Sprintf("%d min of focus on %s done.", minutes, taskTitle)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

package domain

import (
	"fmt"
	"time"
)

// ModeSettings is the caller-owned snapshot of focus-mode preferences.
// A fresh value is supplied whenever the user edits settings.
type ModeSettings struct {
	WorkIntervalDuration    time.Duration
	BreakDuration           time.Duration
	AdditionalBreakDuration time.Duration
	IncludeBackgroundTasks  bool
}

// DefaultModeSettings returns the standard 25/5/15 configuration.
func DefaultModeSettings() ModeSettings {
	return ModeSettings{
		WorkIntervalDuration:    25 * time.Minute,
		BreakDuration:           5 * time.Minute,
		AdditionalBreakDuration: 15 * time.Minute,
		IncludeBackgroundTasks:  false,
	}
}

// WorkSeconds returns the work interval length in whole seconds.
func (s ModeSettings) WorkSeconds() int {
	return int(s.WorkIntervalDuration / time.Second)
}

// BreakSeconds returns the normal break length in whole seconds.
func (s ModeSettings) BreakSeconds() int {
	return int(s.BreakDuration / time.Second)
}

// AdditionalBreakSeconds returns the long break length in whole seconds.
func (s ModeSettings) AdditionalBreakSeconds() int {
	return int(s.AdditionalBreakDuration / time.Second)
}

// Validate reports whether every duration is at least one second.
// The scheduler tolerates invalid settings; callers use Validate to reject
// them at input boundaries such as the config command.
func (s ModeSettings) Validate() error {
	switch {
	case s.WorkSeconds() <= 0:
		return fmt.Errorf("%w: work interval must be positive, got %s", ErrInvalidSettings, s.WorkIntervalDuration)
	case s.BreakSeconds() <= 0:
		return fmt.Errorf("%w: break must be positive, got %s", ErrInvalidSettings, s.BreakDuration)
	case s.AdditionalBreakSeconds() <= 0:
		return fmt.Errorf("%w: additional break must be positive, got %s", ErrInvalidSettings, s.AdditionalBreakDuration)
	}
	return nil
}

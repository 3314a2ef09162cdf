package timetrack

import (
	"math"
	"time"

	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
)

// Tracker is the shared time accounting structure attached to an order, a
// production card, or a single component within either. Elapsed production
// time is wall-clock time since start minus accumulated pause minutes minus
// the current pause interval when paused.
//
// Invariant: PauseStartTime is set if and only if IsPaused is true.
type Tracker struct {
	StartTime         time.Time  `json:"startTime"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	TotalTimeMinutes  int        `json:"totalTimeMinutes"`
	IsPaused          bool       `json:"isPaused"`
	PauseStartTime    *time.Time `json:"pauseStartTime,omitempty"`
	TotalPauseMinutes int        `json:"totalPauseMinutes"`
}

// Start returns a fresh tracker. A tracker that already exists and is not
// paused cannot be started again.
func Start(existing *Tracker, now time.Time) (*Tracker, error) {
	if existing != nil && !existing.IsPaused {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "timer is already running")
	}
	return &Tracker{StartTime: now}, nil
}

// Pause records the start of a pause interval.
func (t *Tracker) Pause(now time.Time) error {
	if t == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "timer has not been started")
	}
	if t.IsPaused {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "timer is already paused")
	}
	pausedAt := now
	t.IsPaused = true
	t.PauseStartTime = &pausedAt
	return nil
}

// Resume folds the elapsed pause interval into TotalPauseMinutes, rounded to
// the nearest minute, and clears the pause marker.
func (t *Tracker) Resume(now time.Time) error {
	if t == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "timer has not been started")
	}
	if !t.IsPaused || t.PauseStartTime == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "timer is not paused")
	}
	t.TotalPauseMinutes += roundMinutes(now.Sub(*t.PauseStartTime))
	t.IsPaused = false
	t.PauseStartTime = nil
	return nil
}

// ElapsedMinutes reports whole minutes of active production time at now,
// floored at zero.
func (t *Tracker) ElapsedMinutes(now time.Time) int {
	if t == nil || t.StartTime.IsZero() {
		return 0
	}
	elapsed := now.Sub(t.StartTime)
	elapsed -= time.Duration(t.TotalPauseMinutes) * time.Minute
	if t.IsPaused && t.PauseStartTime != nil {
		elapsed -= now.Sub(*t.PauseStartTime)
	}
	if elapsed < 0 {
		return 0
	}
	return roundMinutes(elapsed)
}

// Close stamps the end time and freezes the final elapsed figure.
func (t *Tracker) Close(now time.Time) {
	if t == nil {
		return
	}
	if t.IsPaused && t.PauseStartTime != nil {
		// A completion while paused ends the pause interval first.
		t.TotalPauseMinutes += roundMinutes(now.Sub(*t.PauseStartTime))
		t.IsPaused = false
		t.PauseStartTime = nil
	}
	endedAt := now
	t.EndTime = &endedAt
	t.TotalTimeMinutes = t.ElapsedMinutes(now)
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

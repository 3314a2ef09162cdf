package timetrack

import (
	"testing"
	"time"

	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
)

var t0 = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

func mustStart(t *testing.T, now time.Time) *Tracker {
	t.Helper()
	tracker, err := Start(nil, now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return tracker
}

func TestStartRejectsRunningTracker(t *testing.T) {
	tracker := mustStart(t, t0)
	if _, err := Start(tracker, t0.Add(time.Minute)); err == nil {
		t.Fatal("expected double-start to fail")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}

	if err := tracker.Pause(t0.Add(time.Minute)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := Start(tracker, t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("paused tracker should allow a fresh start: %v", err)
	}
}

func TestPauseGuards(t *testing.T) {
	var tracker *Tracker
	if err := tracker.Pause(t0); err == nil {
		t.Fatal("pausing a missing tracker should fail")
	}

	tracker = mustStart(t, t0)
	if err := tracker.Pause(t0.Add(5 * time.Minute)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !tracker.IsPaused || tracker.PauseStartTime == nil {
		t.Fatal("pause must set the pause marker")
	}
	if err := tracker.Pause(t0.Add(6 * time.Minute)); err == nil {
		t.Fatal("double pause should fail")
	}
}

func TestResumeGuards(t *testing.T) {
	var tracker *Tracker
	if err := tracker.Resume(t0); err == nil {
		t.Fatal("resuming a missing tracker should fail")
	}

	tracker = mustStart(t, t0)
	if err := tracker.Resume(t0.Add(time.Minute)); err == nil {
		t.Fatal("resuming a running tracker should fail")
	}
}

func TestElapsedExcludesPausedTime(t *testing.T) {
	tracker := mustStart(t, t0)

	// 20 minutes of work, then a 10 minute pause.
	pauseAt := t0.Add(20 * time.Minute)
	if err := tracker.Pause(pauseAt); err != nil {
		t.Fatalf("pause: %v", err)
	}
	resumeAt := pauseAt.Add(10 * time.Minute)
	if err := tracker.Resume(resumeAt); err != nil {
		t.Fatalf("resume: %v", err)
	}

	if got := tracker.ElapsedMinutes(resumeAt); got != 20 {
		t.Fatalf("expected 20 elapsed minutes right after resume, got %d", got)
	}
	if tracker.TotalPauseMinutes != 10 {
		t.Fatalf("expected 10 pause minutes, got %d", tracker.TotalPauseMinutes)
	}

	if got := tracker.ElapsedMinutes(resumeAt.Add(5 * time.Minute)); got != 25 {
		t.Fatalf("expected 25 elapsed minutes, got %d", got)
	}
}

func TestElapsedConstantWhilePaused(t *testing.T) {
	tracker := mustStart(t, t0)
	if err := tracker.Pause(t0.Add(15 * time.Minute)); err != nil {
		t.Fatalf("pause: %v", err)
	}

	for _, offset := range []time.Duration{16 * time.Minute, 45 * time.Minute, 3 * time.Hour} {
		if got := tracker.ElapsedMinutes(t0.Add(offset)); got != 15 {
			t.Fatalf("elapsed should stay 15 while paused, got %d at +%s", got, offset)
		}
	}
}

func TestElapsedMonotonicWhileRunning(t *testing.T) {
	tracker := mustStart(t, t0)
	prev := -1
	for offset := time.Duration(0); offset <= time.Hour; offset += 7 * time.Minute {
		got := tracker.ElapsedMinutes(t0.Add(offset))
		if got < prev {
			t.Fatalf("elapsed decreased from %d to %d at +%s", prev, got, offset)
		}
		prev = got
	}
}

func TestRepeatedPauseResumeAccumulatesAdditively(t *testing.T) {
	tracker := mustStart(t, t0)
	now := t0

	// Three work/pause rounds: 10 on, 5 off.
	for i := 0; i < 3; i++ {
		now = now.Add(10 * time.Minute)
		if err := tracker.Pause(now); err != nil {
			t.Fatalf("pause %d: %v", i, err)
		}
		now = now.Add(5 * time.Minute)
		if err := tracker.Resume(now); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}

	if tracker.TotalPauseMinutes != 15 {
		t.Fatalf("expected 15 accumulated pause minutes, got %d", tracker.TotalPauseMinutes)
	}
	if got := tracker.ElapsedMinutes(now); got != 30 {
		t.Fatalf("expected 30 elapsed minutes, got %d", got)
	}
	// Wall clock is elapsed plus the pauses, to rounding.
	wall := int(now.Sub(t0).Minutes())
	if wall < tracker.ElapsedMinutes(now)+tracker.TotalPauseMinutes {
		t.Fatalf("wall clock %d shorter than elapsed+pauses", wall)
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	tracker := mustStart(t, t0)
	if got := tracker.ElapsedMinutes(t0.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected clamp at zero, got %d", got)
	}
	tracker.TotalPauseMinutes = 600
	if got := tracker.ElapsedMinutes(t0.Add(time.Hour)); got != 0 {
		t.Fatalf("expected clamp at zero with oversized pauses, got %d", got)
	}
}

func TestCloseWhilePausedEndsPauseInterval(t *testing.T) {
	tracker := mustStart(t, t0)
	if err := tracker.Pause(t0.Add(30 * time.Minute)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	closeAt := t0.Add(50 * time.Minute)
	tracker.Close(closeAt)

	if tracker.EndTime == nil || !tracker.EndTime.Equal(closeAt) {
		t.Fatal("expected end time stamp")
	}
	if tracker.IsPaused || tracker.PauseStartTime != nil {
		t.Fatal("close must clear the pause marker")
	}
	if tracker.TotalTimeMinutes != 30 {
		t.Fatalf("expected 30 final minutes, got %d", tracker.TotalTimeMinutes)
	}
}

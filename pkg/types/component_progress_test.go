package types

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
)

func TestCloneComponentsIsDeep(t *testing.T) {
	startedAt := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	note := "short pour"
	original := []ComponentProgress{
		{
			ComponentID:      uuid.New(),
			ComponentName:    "frame",
			ComponentSKU:     "FRM-01",
			QuantityRequired: 2,
			StartedAt:        &startedAt,
			Timer:            &timetrack.Tracker{StartTime: startedAt},
			Materials: []MaterialUsage{
				{
					MaterialID:      uuid.New(),
					MaterialName:    "steel tube",
					MaterialSKU:     "STL-20",
					PlannedQuantity: 4,
					ActualQuantity:  4.5,
					Unit:            "m",
					AdjustmentNote:  &note,
				},
			},
		},
	}

	cloned := CloneComponents(original)

	cloned[0].IsCompleted = true
	cloned[0].QuantityCompleted = 2
	cloned[0].Materials[0].ActualQuantity = 99
	*cloned[0].Materials[0].AdjustmentNote = "changed"
	cloned[0].Timer.TotalPauseMinutes = 42
	*cloned[0].StartedAt = startedAt.Add(time.Hour)

	if original[0].IsCompleted {
		t.Fatal("clone mutation leaked into original completion flag")
	}
	if original[0].Materials[0].ActualQuantity != 4.5 {
		t.Fatal("clone mutation leaked into original material usage")
	}
	if *original[0].Materials[0].AdjustmentNote != "short pour" {
		t.Fatal("clone mutation leaked into original note")
	}
	if original[0].Timer.TotalPauseMinutes != 0 {
		t.Fatal("clone mutation leaked into original timer")
	}
	if !original[0].StartedAt.Equal(startedAt) {
		t.Fatal("clone mutation leaked into original start time")
	}
}

func TestCloneComponentsPreservesNil(t *testing.T) {
	if CloneComponents(nil) != nil {
		t.Fatal("nil list should clone to nil")
	}
	cloned := CloneComponents([]ComponentProgress{{ComponentName: "bare"}})
	if cloned[0].Materials != nil || cloned[0].Timer != nil {
		t.Fatal("empty optional fields should stay nil")
	}
}

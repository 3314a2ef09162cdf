package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
)

// MaterialUsage records planned vs. actual material consumption for one
// component build. Name/SKU/unit are snapshots taken at write time; the
// actual quantity is a record of what was used, never a stock debit.
type MaterialUsage struct {
	MaterialID      uuid.UUID  `json:"materialId"`
	MaterialName    string     `json:"materialName"`
	MaterialSKU     string     `json:"materialSku"`
	PlannedQuantity float64    `json:"plannedQuantity"`
	ActualQuantity  float64    `json:"actualQuantity"`
	Unit            string     `json:"unit"`
	AdjustmentNote  *string    `json:"adjustmentNote,omitempty"`
	AdjustedBy      *string    `json:"adjustedBy,omitempty"`
	AdjustedAt      *time.Time `json:"adjustedAt,omitempty"`
}

// ComponentProgress tracks one component's build state inside an order or a
// production card. The name/SKU snapshot is denormalized at creation time.
// Once IsCompleted is set it is never cleared.
type ComponentProgress struct {
	ComponentID       uuid.UUID          `json:"componentId"`
	ComponentName     string             `json:"componentName"`
	ComponentSKU      string             `json:"componentSku"`
	QuantityRequired  int                `json:"quantityRequired"`
	QuantityCompleted int                `json:"quantityCompleted"`
	IsCompleted       bool               `json:"isCompleted"`
	StartedAt         *time.Time         `json:"startedAt,omitempty"`
	CompletedAt       *time.Time         `json:"completedAt,omitempty"`
	Timer             *timetrack.Tracker `json:"timer,omitempty"`
	Materials         []MaterialUsage    `json:"materials,omitempty"`
}

// Clone returns a deep copy. Orders hand cloned lists to each production card
// at creation time; afterwards no mutation may propagate between the order's
// list, a card's list, or sibling cards' lists.
func (c ComponentProgress) Clone() ComponentProgress {
	out := c
	out.StartedAt = cloneTime(c.StartedAt)
	out.CompletedAt = cloneTime(c.CompletedAt)
	if c.Timer != nil {
		timer := *c.Timer
		timer.EndTime = cloneTime(c.Timer.EndTime)
		timer.PauseStartTime = cloneTime(c.Timer.PauseStartTime)
		out.Timer = &timer
	}
	if c.Materials != nil {
		out.Materials = make([]MaterialUsage, len(c.Materials))
		for i, usage := range c.Materials {
			out.Materials[i] = usage.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the usage entry.
func (m MaterialUsage) Clone() MaterialUsage {
	out := m
	out.AdjustmentNote = cloneString(m.AdjustmentNote)
	out.AdjustedBy = cloneString(m.AdjustedBy)
	out.AdjustedAt = cloneTime(m.AdjustedAt)
	return out
}

// CloneComponents deep-copies a full component list.
func CloneComponents(components []ComponentProgress) []ComponentProgress {
	if components == nil {
		return nil
	}
	out := make([]ComponentProgress, len(components))
	for i, component := range components {
		out[i] = component.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/timetrack"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// Find returns a pointer into the slice for the component with the given id.
// Callers mutate through the pointer and persist the whole list afterwards.
func Find(components []types.ComponentProgress, componentID uuid.UUID) (*types.ComponentProgress, error) {
	for i := range components {
		if components[i].ComponentID == componentID {
			return &components[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
}

// Complete marks one component done. Completing an already-completed component
// fails and leaves its original CompletedAt untouched.
func Complete(components []types.ComponentProgress, componentID uuid.UUID, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}
	if component.IsCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "component is already completed")
	}
	completedAt := now
	component.IsCompleted = true
	component.QuantityCompleted = component.QuantityRequired
	component.CompletedAt = &completedAt
	if component.Timer != nil {
		component.Timer.Close(now)
	}
	return component, nil
}

// AllCompleted reports whether every component in the list is done. An empty
// list counts as complete.
func AllCompleted(components []types.ComponentProgress) bool {
	for i := range components {
		if !components[i].IsCompleted {
			return false
		}
	}
	return true
}

// CompletedCount returns how many components are done.
func CompletedCount(components []types.ComponentProgress) int {
	count := 0
	for i := range components {
		if components[i].IsCompleted {
			count++
		}
	}
	return count
}

// StartTimer starts (or restarts from paused) the component's own tracker.
func StartTimer(components []types.ComponentProgress, componentID uuid.UUID, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}
	if component.IsCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "component is already completed")
	}
	timer, err := timetrack.Start(component.Timer, now)
	if err != nil {
		return nil, err
	}
	component.Timer = timer
	if component.StartedAt == nil {
		startedAt := now
		component.StartedAt = &startedAt
	}
	return component, nil
}

// PauseTimer pauses the component's tracker.
func PauseTimer(components []types.ComponentProgress, componentID uuid.UUID, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}
	if err := component.Timer.Pause(now); err != nil {
		return nil, err
	}
	return component, nil
}

// ResumeTimer resumes the component's tracker.
func ResumeTimer(components []types.ComponentProgress, componentID uuid.UUID, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}
	if err := component.Timer.Resume(now); err != nil {
		return nil, err
	}
	return component, nil
}

// TimerElapsed reports the component's active minutes at now.
func TimerElapsed(components []types.ComponentProgress, componentID uuid.UUID, now time.Time) (int, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return 0, err
	}
	return component.Timer.ElapsedMinutes(now), nil
}

// MaterialInput is one incoming usage entry keyed by catalog material id.
type MaterialInput struct {
	MaterialID      uuid.UUID
	PlannedQuantity *float64
	ActualQuantity  float64
	Note            *string
	AdjustedBy      *string
}

// ReplaceMaterials swaps the component's material list for the incoming one.
// Each entry resolves its live name/SKU/unit from the supplied catalog rows;
// ids that do not resolve are dropped silently. A plannedQuantity recorded on
// the previous list survives the replace; brand-new entries default to 1.
func ReplaceMaterials(components []types.ComponentProgress, componentID uuid.UUID, inputs []MaterialInput, resolved map[uuid.UUID]models.InventoryItem, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}

	previousPlanned := make(map[uuid.UUID]float64, len(component.Materials))
	for _, usage := range component.Materials {
		previousPlanned[usage.MaterialID] = usage.PlannedQuantity
	}

	next := make([]types.MaterialUsage, 0, len(inputs))
	for _, input := range inputs {
		item, ok := resolved[input.MaterialID]
		if !ok {
			continue
		}
		planned := 1.0
		if prev, existed := previousPlanned[input.MaterialID]; existed {
			planned = prev
		} else if input.PlannedQuantity != nil {
			planned = *input.PlannedQuantity
		}
		next = append(next, buildUsage(item, planned, input, now))
	}

	component.Materials = next
	return component, nil
}

// AppendMaterial adds a single usage entry. Unlike replace, an unresolvable
// material id is an error here.
func AppendMaterial(components []types.ComponentProgress, componentID uuid.UUID, input MaterialInput, resolved map[uuid.UUID]models.InventoryItem, now time.Time) (*types.ComponentProgress, error) {
	component, err := Find(components, componentID)
	if err != nil {
		return nil, err
	}
	item, ok := resolved[input.MaterialID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	planned := 1.0
	if input.PlannedQuantity != nil {
		planned = *input.PlannedQuantity
	}
	component.Materials = append(component.Materials, buildUsage(item, planned, input, now))
	return component, nil
}

func buildUsage(item models.InventoryItem, planned float64, input MaterialInput, now time.Time) types.MaterialUsage {
	usage := types.MaterialUsage{
		MaterialID:      item.ID,
		MaterialName:    item.Name,
		MaterialSKU:     item.SKU,
		PlannedQuantity: planned,
		ActualQuantity:  input.ActualQuantity,
		Unit:            item.Unit,
	}
	if input.Note != nil || input.AdjustedBy != nil {
		adjustedAt := now
		usage.AdjustmentNote = input.Note
		usage.AdjustedBy = input.AdjustedBy
		usage.AdjustedAt = &adjustedAt
	}
	return usage
}

// BuildComponents resolves a model's component list into fresh progress
// entries, snapshotting names and SKUs and seeding planned materials from the
// model's bill of materials. Component ids that do not resolve are skipped.
func BuildComponents(componentIDs []uuid.UUID, resolvedComponents map[uuid.UUID]models.InventoryItem, bom types.BillOfMaterials, resolvedMaterials map[uuid.UUID]models.InventoryItem) []types.ComponentProgress {
	out := make([]types.ComponentProgress, 0, len(componentIDs))
	for _, id := range componentIDs {
		item, ok := resolvedComponents[id]
		if !ok {
			continue
		}
		component := types.ComponentProgress{
			ComponentID:      item.ID,
			ComponentName:    item.Name,
			ComponentSKU:     item.SKU,
			QuantityRequired: 1,
		}
		for _, line := range bom[id] {
			material, found := resolvedMaterials[line.MaterialID]
			if !found {
				continue
			}
			component.Materials = append(component.Materials, types.MaterialUsage{
				MaterialID:      material.ID,
				MaterialName:    material.Name,
				MaterialSKU:     material.SKU,
				PlannedQuantity: line.Quantity,
				Unit:            material.Unit,
			})
		}
		out = append(out, component)
	}
	return out
}

package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

var baseTime = time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC)

func componentList(ids ...uuid.UUID) []types.ComponentProgress {
	out := make([]types.ComponentProgress, 0, len(ids))
	for i, id := range ids {
		out = append(out, types.ComponentProgress{
			ComponentID:      id,
			ComponentName:    "Component",
			ComponentSKU:     "CMP-" + uuid.NewString()[:8],
			QuantityRequired: i + 1,
		})
	}
	return out
}

func materialItem(name, sku, unit string) models.InventoryItem {
	return models.InventoryItem{ID: uuid.New(), Name: name, SKU: sku, Unit: unit}
}

func TestCompleteSetsQuantityAndTimestamp(t *testing.T) {
	id := uuid.New()
	components := componentList(id)
	components[0].QuantityRequired = 4

	component, err := Complete(components, id, baseTime)
	require.NoError(t, err)
	assert.True(t, component.IsCompleted)
	assert.Equal(t, 4, component.QuantityCompleted)
	require.NotNil(t, component.CompletedAt)
	assert.Equal(t, baseTime, *component.CompletedAt)
}

func TestCompleteTwiceFailsAndPreservesTimestamp(t *testing.T) {
	id := uuid.New()
	components := componentList(id)

	_, err := Complete(components, id, baseTime)
	require.NoError(t, err)

	_, err = Complete(components, id, baseTime.Add(time.Hour))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, baseTime, *components[0].CompletedAt)
}

func TestCompleteUnknownComponent(t *testing.T) {
	components := componentList(uuid.New())
	_, err := Complete(components, uuid.New(), baseTime)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAllCompleted(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	components := componentList(a, b)
	assert.False(t, AllCompleted(components))

	_, err := Complete(components, a, baseTime)
	require.NoError(t, err)
	assert.False(t, AllCompleted(components))
	assert.Equal(t, 1, CompletedCount(components))

	_, err = Complete(components, b, baseTime)
	require.NoError(t, err)
	assert.True(t, AllCompleted(components))

	assert.True(t, AllCompleted(nil))
}

func TestComponentTimerRoundTrip(t *testing.T) {
	id := uuid.New()
	components := componentList(id)

	_, err := StartTimer(components, id, baseTime)
	require.NoError(t, err)
	require.NotNil(t, components[0].Timer)
	require.NotNil(t, components[0].StartedAt)

	_, err = PauseTimer(components, id, baseTime.Add(10*time.Minute))
	require.NoError(t, err)

	_, err = ResumeTimer(components, id, baseTime.Add(25*time.Minute))
	require.NoError(t, err)

	elapsed, err := TimerElapsed(components, id, baseTime.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 15, elapsed)
}

func TestStartTimerOnCompletedComponentFails(t *testing.T) {
	id := uuid.New()
	components := componentList(id)
	_, err := Complete(components, id, baseTime)
	require.NoError(t, err)

	_, err = StartTimer(components, id, baseTime.Add(time.Minute))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestReplaceMaterialsResolvesAndSkips(t *testing.T) {
	id := uuid.New()
	components := componentList(id)

	kept := materialItem("Oak Board", "MAT-OAK", "m")
	resolved := map[uuid.UUID]models.InventoryItem{kept.ID: kept}

	inputs := []MaterialInput{
		{MaterialID: kept.ID, ActualQuantity: 2.5},
		{MaterialID: uuid.New(), ActualQuantity: 9},
	}

	component, err := ReplaceMaterials(components, id, inputs, resolved, baseTime)
	require.NoError(t, err)
	require.Len(t, component.Materials, 1)
	usage := component.Materials[0]
	assert.Equal(t, kept.ID, usage.MaterialID)
	assert.Equal(t, "Oak Board", usage.MaterialName)
	assert.Equal(t, "MAT-OAK", usage.MaterialSKU)
	assert.Equal(t, "m", usage.Unit)
	assert.Equal(t, 1.0, usage.PlannedQuantity)
	assert.Equal(t, 2.5, usage.ActualQuantity)
}

func TestReplaceMaterialsPreservesExistingPlanned(t *testing.T) {
	id := uuid.New()
	components := componentList(id)
	item := materialItem("Steel Rod", "MAT-STL", "pcs")
	components[0].Materials = []types.MaterialUsage{{
		MaterialID:      item.ID,
		MaterialName:    "Old Name",
		PlannedQuantity: 7,
		ActualQuantity:  3,
	}}

	resolved := map[uuid.UUID]models.InventoryItem{item.ID: item}
	planned := 2.0
	component, err := ReplaceMaterials(components, id, []MaterialInput{
		{MaterialID: item.ID, PlannedQuantity: &planned, ActualQuantity: 5},
	}, resolved, baseTime)
	require.NoError(t, err)
	require.Len(t, component.Materials, 1)
	// prior planned wins over incoming value; name refreshed from the catalog
	assert.Equal(t, 7.0, component.Materials[0].PlannedQuantity)
	assert.Equal(t, "Steel Rod", component.Materials[0].MaterialName)
	assert.Equal(t, 5.0, component.Materials[0].ActualQuantity)
}

func TestAppendMaterialRequiresResolution(t *testing.T) {
	id := uuid.New()
	components := componentList(id)

	_, err := AppendMaterial(components, id, MaterialInput{MaterialID: uuid.New(), ActualQuantity: 1}, nil, baseTime)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	item := materialItem("Glue", "MAT-GLU", "l")
	note := "used extra"
	component, err := AppendMaterial(components, id, MaterialInput{
		MaterialID:     item.ID,
		ActualQuantity: 0.5,
		Note:           &note,
	}, map[uuid.UUID]models.InventoryItem{item.ID: item}, baseTime)
	require.NoError(t, err)
	require.Len(t, component.Materials, 1)
	assert.Equal(t, "Glue", component.Materials[0].MaterialName)
	require.NotNil(t, component.Materials[0].AdjustedAt)
	assert.Equal(t, baseTime, *component.Materials[0].AdjustedAt)
}

func TestBuildComponentsSeedsBOM(t *testing.T) {
	componentItem := models.InventoryItem{ID: uuid.New(), Name: "Leg Assembly", SKU: "CMP-LEG", Unit: "pcs"}
	material := materialItem("Screws", "MAT-SCR", "pcs")
	missingComponent := uuid.New()

	bom := types.BillOfMaterials{
		componentItem.ID: {
			{MaterialID: material.ID, Quantity: 8},
			{MaterialID: uuid.New(), Quantity: 2},
		},
	}

	components := BuildComponents(
		[]uuid.UUID{componentItem.ID, missingComponent},
		map[uuid.UUID]models.InventoryItem{componentItem.ID: componentItem},
		bom,
		map[uuid.UUID]models.InventoryItem{material.ID: material},
	)

	require.Len(t, components, 1)
	assert.Equal(t, "Leg Assembly", components[0].ComponentName)
	assert.Equal(t, 1, components[0].QuantityRequired)
	assert.False(t, components[0].IsCompleted)
	require.Len(t, components[0].Materials, 1)
	assert.Equal(t, 8.0, components[0].Materials[0].PlannedQuantity)
}

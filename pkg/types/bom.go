package types

import "github.com/google/uuid"

// BOMLine declares one material requirement for building a single component.
type BOMLine struct {
	MaterialID uuid.UUID `json:"materialId"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit,omitempty"`
}

// BillOfMaterials maps a component id to the materials required to build one
// unit of that component. Stored as jsonb on model items.
type BillOfMaterials map[uuid.UUID][]BOMLine

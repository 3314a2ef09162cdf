package enums

import "fmt"

// ItemType classifies a catalog record: a manufacturable model, a sub-assembly
// component, or a raw material.
type ItemType string

const (
	ItemTypeModel     ItemType = "model"
	ItemTypeComponent ItemType = "component"
	ItemTypeMaterial  ItemType = "material"
)

var validItemTypes = []ItemType{
	ItemTypeModel,
	ItemTypeComponent,
	ItemTypeMaterial,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}

package enums

import "fmt"

// ItemCategory tags an item as shared equipment or food supplies.
type ItemCategory string

const (
	ItemCategoryEquipment ItemCategory = "equipment"
	ItemCategoryFood      ItemCategory = "food"
)

var validItemCategories = []ItemCategory{
	ItemCategoryEquipment,
	ItemCategoryFood,
}

// String implements fmt.Stringer.
func (i ItemCategory) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCategory.
func (i ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

package enums

import "fmt"

// ItemUnit is the measurement unit an item quantity is expressed in.
type ItemUnit string

const (
	ItemUnitPieces ItemUnit = "pcs"
	ItemUnitKg     ItemUnit = "kg"
	ItemUnitGrams  ItemUnit = "g"
	ItemUnitLiters ItemUnit = "l"
	ItemUnitMl     ItemUnit = "ml"
	ItemUnitPack   ItemUnit = "pack"
	ItemUnitBox    ItemUnit = "box"
	ItemUnitBottle ItemUnit = "bottle"
	ItemUnitCan    ItemUnit = "can"
	ItemUnitSet    ItemUnit = "set"
)

var validItemUnits = []ItemUnit{
	ItemUnitPieces,
	ItemUnitKg,
	ItemUnitGrams,
	ItemUnitLiters,
	ItemUnitMl,
	ItemUnitPack,
	ItemUnitBox,
	ItemUnitBottle,
	ItemUnitCan,
	ItemUnitSet,
}

// String implements fmt.Stringer.
func (i ItemUnit) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemUnit.
func (i ItemUnit) IsValid() bool {
	for _, candidate := range validItemUnits {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemUnit converts raw input into an ItemUnit.
func ParseItemUnit(value string) (ItemUnit, error) {
	for _, candidate := range validItemUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item unit %q", value)
}

package enums

import "fmt"

// ItemStatus tracks an item's progress from wishlist to packed.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPurchased ItemStatus = "purchased"
	ItemStatusPacked    ItemStatus = "packed"
	ItemStatusCanceled  ItemStatus = "canceled"
)

var validItemStatuses = []ItemStatus{
	ItemStatusPending,
	ItemStatusPurchased,
	ItemStatusPacked,
	ItemStatusCanceled,
}

// String implements fmt.Stringer.
func (i ItemStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemStatus.
func (i ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}

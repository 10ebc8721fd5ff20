package enums

import "fmt"

// RSVPStatus tracks a participant's attendance answer.
type RSVPStatus string

const (
	RSVPStatusPending   RSVPStatus = "pending"
	RSVPStatusConfirmed RSVPStatus = "confirmed"
	RSVPStatusNotSure   RSVPStatus = "not_sure"
)

var validRSVPStatuses = []RSVPStatus{
	RSVPStatusPending,
	RSVPStatusConfirmed,
	RSVPStatusNotSure,
}

// String implements fmt.Stringer.
func (r RSVPStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RSVPStatus.
func (r RSVPStatus) IsValid() bool {
	for _, candidate := range validRSVPStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRSVPStatus converts raw input into an RSVPStatus.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	for _, candidate := range validRSVPStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rsvp status %q", value)
}

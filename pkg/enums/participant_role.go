package enums

import "fmt"

// ParticipantRole represents a participant's permissions inside a plan.
type ParticipantRole string

const (
	ParticipantRoleOwner       ParticipantRole = "owner"
	ParticipantRoleParticipant ParticipantRole = "participant"
	ParticipantRoleViewer      ParticipantRole = "viewer"
)

var validParticipantRoles = []ParticipantRole{
	ParticipantRoleOwner,
	ParticipantRoleParticipant,
	ParticipantRoleViewer,
}

// String implements fmt.Stringer.
func (p ParticipantRole) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParticipantRole.
func (p ParticipantRole) IsValid() bool {
	for _, candidate := range validParticipantRoles {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParticipantRole converts raw input into a ParticipantRole.
func ParseParticipantRole(value string) (ParticipantRole, error) {
	for _, candidate := range validParticipantRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid participant role %q", value)
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/pkg/enums"
)

// Participant is a person associated with exactly one plan.
//
// InviteToken is assigned once at creation and never changes; UserID is nil
// until the slot is claimed by an authenticated identity, and the claim
// transition happens at most once.
type Participant struct {
	ID              uuid.UUID             `json:"id"`
	PlanID          uuid.UUID             `json:"plan_id"`
	Name            string                `json:"name"`
	LastName        string                `json:"last_name"`
	DisplayName     string                `json:"display_name,omitempty"`
	AvatarURL       string                `json:"avatar_url,omitempty"`
	ContactPhone    string                `json:"contact_phone"`
	ContactEmail    string                `json:"contact_email,omitempty"`
	Role            enums.ParticipantRole `json:"role"`
	RSVPStatus      enums.RSVPStatus      `json:"rsvp_status"`
	AdultsCount     int                   `json:"adults_count,omitempty"`
	KidsCount       int                   `json:"kids_count,omitempty"`
	FoodPreferences string                `json:"food_preferences,omitempty"`
	Allergies       string                `json:"allergies,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	InviteToken     string                `json:"invite_token"`
	UserID          *uuid.UUID            `json:"user_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Claimed reports whether the participant slot is bound to an identity.
func (p *Participant) Claimed() bool {
	return p.UserID != nil
}

// Label returns the participant's public-facing name for redacted views.
func (p *Participant) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/pkg/enums"
)

// Location is a structured address with optional coordinates, owned by a plan.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}

// Plan is a shared trip/event record owning participants and items.
//
// OwnerParticipantID, when set, always appears in ParticipantIDs; the store
// services maintain that invariant on every membership mutation.
type Plan struct {
	ID                 uuid.UUID            `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description,omitempty"`
	Status             enums.PlanStatus     `json:"status"`
	Visibility         enums.PlanVisibility `json:"visibility"`
	Location           *Location            `json:"location,omitempty"`
	StartDate          *time.Time           `json:"start_date,omitempty"`
	EndDate            *time.Time           `json:"end_date,omitempty"`
	Tags               []string             `json:"tags,omitempty"`
	OwnerParticipantID *uuid.UUID           `json:"owner_participant_id,omitempty"`
	ParticipantIDs     []uuid.UUID          `json:"participant_ids"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// HasParticipant reports whether the id is part of the plan's membership list.
func (p *Plan) HasParticipant(id uuid.UUID) bool {
	for _, pid := range p.ParticipantIDs {
		if pid == id {
			return true
		}
	}
	return false
}

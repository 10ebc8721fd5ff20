package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/pkg/enums"
)

// Item is a shopping/packing entry scoped to one plan. PlanID is immutable
// after creation; AssignedParticipantID, when set, references a participant
// of the same plan.
type Item struct {
	ID                    uuid.UUID          `json:"id"`
	PlanID                uuid.UUID          `json:"plan_id"`
	Name                  string             `json:"name"`
	Category              enums.ItemCategory `json:"category"`
	Subcategory           string             `json:"subcategory,omitempty"`
	Quantity              int                `json:"quantity"`
	Unit                  enums.ItemUnit     `json:"unit"`
	Status                enums.ItemStatus   `json:"status"`
	Notes                 string             `json:"notes,omitempty"`
	AssignedParticipantID *uuid.UUID         `json:"assigned_participant_id,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

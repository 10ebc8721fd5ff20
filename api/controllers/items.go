package controllers

import (
	"net/http"

	"github.com/tripmate-app/tripmate-backend/api/responses"
	"github.com/tripmate-app/tripmate-backend/api/validators"
	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
	"github.com/tripmate-app/tripmate-backend/pkg/types"
)

type itemCreateRequest struct {
	Name                  string             `json:"name" validate:"required"`
	Category              enums.ItemCategory `json:"category" validate:"required"`
	Subcategory           string             `json:"subcategory,omitempty"`
	Quantity              *int               `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit                  enums.ItemUnit     `json:"unit,omitempty"`
	Status                enums.ItemStatus   `json:"status,omitempty"`
	Notes                 string             `json:"notes,omitempty"`
	AssignedParticipantID types.NullableUUID `json:"assigned_participant_id,omitempty"`
}

func (req itemCreateRequest) toInput() items.CreateInput {
	input := items.CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	if req.AssignedParticipantID.Valid && req.AssignedParticipantID.Value != nil {
		id := *req.AssignedParticipantID.Value
		input.AssignedParticipantID = &id
	}
	return input
}

type itemUpdateRequest struct {
	Name                  *string            `json:"name,omitempty" validate:"omitempty,min=1"`
	Subcategory           *string            `json:"subcategory,omitempty"`
	Quantity              *int               `json:"quantity,omitempty"`
	Unit                  *enums.ItemUnit    `json:"unit,omitempty"`
	Status                *enums.ItemStatus  `json:"status,omitempty"`
	Notes                 *string            `json:"notes,omitempty"`
	AssignedParticipantID types.NullableUUID `json:"assigned_participant_id,omitempty"`
}

func (req itemUpdateRequest) toInput() items.UpdateInput {
	return items.UpdateInput{
		Name:                req.Name,
		Subcategory:         req.Subcategory,
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		Status:              req.Status,
		Notes:               req.Notes,
		AssignedParticipant: req.AssignedParticipantID.Clone(),
	}
}

type bulkItemRequest struct {
	ItemID string `json:"item_id"`
	itemUpdateRequest
}

// ItemCreate adds an item under a plan.
func ItemCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), planID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ItemUpdate applies a partial patch to the item.
func ItemUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), itemID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ItemDelete removes the item.
func ItemDelete(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ItemBulkUpdate applies an array of per-item patches. Entry failures come
// back in the body's errors array; the response stays 200 as long as the
// plan exists.
func ItemBulkUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload []bulkItemRequest
		if err := validators.DecodeJSONList(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries := make([]items.BulkEntry, 0, len(payload))
		for _, entry := range payload {
			entries = append(entries, items.BulkEntry{
				ItemID: entry.ItemID,
				Patch:  entry.toInput(),
			})
		}

		result, err := svc.BulkUpdate(r.Context(), planID, entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/api/middleware"
	"github.com/tripmate-app/tripmate-backend/api/responses"
	"github.com/tripmate-app/tripmate-backend/api/validators"
	"github.com/tripmate-app/tripmate-backend/internal/invites"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

type invitePreviewResponse struct {
	Plan            models.Plan                  `json:"plan"`
	Participants    []invites.ParticipantSummary `json:"participants"`
	Items           []models.Item                `json:"items"`
	MyParticipantID uuid.UUID                    `json:"my_participant_id"`
	Me              models.Participant           `json:"me"`
}

type invitePreferencesRequest struct {
	DisplayName     *string           `json:"display_name,omitempty"`
	RSVPStatus      *enums.RSVPStatus `json:"rsvp_status,omitempty"`
	AdultsCount     *int              `json:"adults_count,omitempty" validate:"omitempty,min=0"`
	KidsCount       *int              `json:"kids_count,omitempty" validate:"omitempty,min=0"`
	FoodPreferences *string           `json:"food_preferences,omitempty"`
	Allergies       *string           `json:"allergies,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

// InvitePreview shows an invitee the plan through their token: items, a
// redacted participant roster, and their own slot.
func InvitePreview(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), planID, chi.URLParam(r, "token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invitePreviewResponse{
			Plan:            preview.Plan,
			Participants:    preview.Participants,
			Items:           preview.Items,
			MyParticipantID: preview.Me.ID,
			Me:              preview.Me,
		})
	}
}

// InviteClaim binds the caller's identity to the invited slot. Requires a
// bearer identity; the token alone is not enough to claim.
func InviteClaim(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claimed, err := svc.Claim(r.Context(), planID, chi.URLParam(r, "token"), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claimed)
	}
}

// InvitePreferences lets an invitee patch their own slot without an account.
func InvitePreferences(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload invitePreferencesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdatePreferences(r.Context(), planID, chi.URLParam(r, "token"), invites.PreferencesInput{
			DisplayName:     payload.DisplayName,
			RSVPStatus:      payload.RSVPStatus,
			AdultsCount:     payload.AdultsCount,
			KidsCount:       payload.KidsCount,
			FoodPreferences: payload.FoodPreferences,
			Allergies:       payload.Allergies,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// InviteItemCreate adds an item on behalf of the invitee.
func InviteItemCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
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

		created, err := svc.AddItem(r.Context(), planID, chi.URLParam(r, "token"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// InviteItemUpdate patches an item inside the invitee's plan.
func InviteItemUpdate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
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

		updated, err := svc.UpdateItem(r.Context(), planID, chi.URLParam(r, "token"), itemID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

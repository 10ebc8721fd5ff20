package controllers

import (
	"net/http"

	"github.com/tripmate-app/tripmate-backend/api/responses"
	"github.com/tripmate-app/tripmate-backend/api/validators"
	"github.com/tripmate-app/tripmate-backend/internal/participants"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
)

type participantCreateRequest struct {
	Name         string                `json:"name" validate:"required"`
	LastName     string                `json:"last_name" validate:"required"`
	ContactPhone string                `json:"contact_phone" validate:"required"`
	DisplayName  string                `json:"display_name,omitempty"`
	AvatarURL    string                `json:"avatar_url,omitempty"`
	ContactEmail string                `json:"contact_email,omitempty" validate:"omitempty,email"`
	Role         enums.ParticipantRole `json:"role,omitempty"`
	RSVPStatus   enums.RSVPStatus      `json:"rsvp_status,omitempty"`
}

type participantUpdateRequest struct {
	Name            *string                `json:"name,omitempty" validate:"omitempty,min=1"`
	LastName        *string                `json:"last_name,omitempty"`
	ContactPhone    *string                `json:"contact_phone,omitempty"`
	DisplayName     *string                `json:"display_name,omitempty"`
	AvatarURL       *string                `json:"avatar_url,omitempty"`
	ContactEmail    *string                `json:"contact_email,omitempty" validate:"omitempty,email"`
	Role            *enums.ParticipantRole `json:"role,omitempty"`
	RSVPStatus      *enums.RSVPStatus      `json:"rsvp_status,omitempty"`
	AdultsCount     *int                   `json:"adults_count,omitempty" validate:"omitempty,min=0"`
	KidsCount       *int                   `json:"kids_count,omitempty" validate:"omitempty,min=0"`
	FoodPreferences *string                `json:"food_preferences,omitempty"`
	Allergies       *string                `json:"allergies,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
}

// ParticipantAdd adds a participant to an existing plan.
func ParticipantAdd(svc participants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload participantCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Add(r.Context(), planID, participants.AddInput{
			Name:         payload.Name,
			LastName:     payload.LastName,
			ContactPhone: payload.ContactPhone,
			DisplayName:  payload.DisplayName,
			AvatarURL:    payload.AvatarURL,
			ContactEmail: payload.ContactEmail,
			Role:         payload.Role,
			RSVPStatus:   payload.RSVPStatus,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ParticipantUpdate applies a partial patch to the participant.
func ParticipantUpdate(svc participants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := pathUUID(r, "participantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload participantUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), participantID, participants.UpdateInput{
			Name:            payload.Name,
			LastName:        payload.LastName,
			ContactPhone:    payload.ContactPhone,
			DisplayName:     payload.DisplayName,
			AvatarURL:       payload.AvatarURL,
			ContactEmail:    payload.ContactEmail,
			Role:            payload.Role,
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

// ParticipantDelete removes the participant and runs the detach cascade.
func ParticipantDelete(svc participants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := pathUUID(r, "participantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), participantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

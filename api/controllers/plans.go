package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/api/responses"
	"github.com/tripmate-app/tripmate-backend/api/validators"
	"github.com/tripmate-app/tripmate-backend/internal/plans"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

type memberRequest struct {
	Name         string                `json:"name" validate:"required"`
	LastName     string                `json:"last_name" validate:"required"`
	ContactPhone string                `json:"contact_phone" validate:"required"`
	DisplayName  string                `json:"display_name,omitempty"`
	AvatarURL    string                `json:"avatar_url,omitempty"`
	ContactEmail string                `json:"contact_email,omitempty" validate:"omitempty,email"`
	Role         enums.ParticipantRole `json:"role,omitempty"`
	RSVPStatus   enums.RSVPStatus      `json:"rsvp_status,omitempty"`
}

func (m memberRequest) toInput() plans.MemberInput {
	return plans.MemberInput{
		Name:         m.Name,
		LastName:     m.LastName,
		ContactPhone: m.ContactPhone,
		DisplayName:  m.DisplayName,
		AvatarURL:    m.AvatarURL,
		ContactEmail: m.ContactEmail,
		Role:         m.Role,
		RSVPStatus:   m.RSVPStatus,
	}
}

type locationRequest struct {
	Label     string   `json:"label,omitempty"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (l *locationRequest) toInput() *plans.LocationInput {
	if l == nil {
		return nil
	}
	return &plans.LocationInput{
		Label:     l.Label,
		Address:   l.Address,
		City:      l.City,
		Country:   l.Country,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

type planCreateRequest struct {
	Title        string               `json:"title" validate:"required"`
	Description  string               `json:"description,omitempty"`
	Status       enums.PlanStatus     `json:"status,omitempty"`
	Visibility   enums.PlanVisibility `json:"visibility,omitempty"`
	Location     *locationRequest     `json:"location,omitempty"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	Owner        memberRequest        `json:"owner"`
	Participants []memberRequest      `json:"participants,omitempty"`
}

type planUpdateRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string               `json:"description,omitempty"`
	Status      *enums.PlanStatus     `json:"status,omitempty"`
	Visibility  *enums.PlanVisibility `json:"visibility,omitempty"`
	Location    *locationRequest      `json:"location,omitempty"`
	StartDate   *time.Time            `json:"start_date,omitempty"`
	EndDate     *time.Time            `json:"end_date,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
}

type planDetailResponse struct {
	Plan         models.Plan          `json:"plan"`
	Participants []models.Participant `json:"participants"`
	Items        []models.Item        `json:"items"`
}

func toDetailResponse(detail *plans.Detail) planDetailResponse {
	return planDetailResponse{
		Plan:         detail.Plan,
		Participants: detail.Participants,
		Items:        detail.Items,
	}
}

// PlanList returns all plans, optionally filtered by ?status=.
func PlanList(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := plans.ListParams{}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParsePlanStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// PlanCreateWithOwner creates a plan together with its implicit owner
// participant in one operation.
func PlanCreateWithOwner(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload planCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := plans.CreateInput{
			Title:       payload.Title,
			Description: payload.Description,
			Status:      payload.Status,
			Visibility:  payload.Visibility,
			Location:    payload.Location.toInput(),
			StartDate:   payload.StartDate,
			EndDate:     payload.EndDate,
			Tags:        payload.Tags,
			Owner:       payload.Owner.toInput(),
		}
		for _, member := range payload.Participants {
			input.Participants = append(input.Participants, member.toInput())
		}

		detail, err := svc.CreateWithOwner(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toDetailResponse(detail))
	}
}

// PlanDetail returns a plan with its participants and items.
func PlanDetail(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), planID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDetailResponse(detail))
	}
}

// PlanUpdate applies a partial patch to the plan.
func PlanUpdate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload planUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), planID, plans.UpdateInput{
			Title:       payload.Title,
			Description: payload.Description,
			Status:      payload.Status,
			Visibility:  payload.Visibility,
			Location:    payload.Location.toInput(),
			StartDate:   payload.StartDate,
			EndDate:     payload.EndDate,
			Tags:        payload.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// PlanDelete removes the plan and everything scoped to it.
func PlanDelete(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), planID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}

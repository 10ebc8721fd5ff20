// Package participants manages plan membership. Every mutation that can
// desynchronize the membership invariants (owner pointer, membership lists,
// item assignments) runs here inside a single store transaction.
package participants

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

type persister interface {
	Persist(ctx context.Context, snap store.Snapshot)
}

// Service exposes participant membership operations.
type Service interface {
	Add(ctx context.Context, planID uuid.UUID, input AddInput) (*models.Participant, error)
	Update(ctx context.Context, participantID uuid.UUID, patch UpdateInput) (*models.Participant, error)
	Delete(ctx context.Context, participantID uuid.UUID) error
}

type service struct {
	store     *store.Store
	snapshots persister
}

// NewService wires the participant service.
func NewService(st *store.Store, snapshots persister) (Service, error) {
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store required")
	}
	return &service{store: st, snapshots: snapshots}, nil
}

// AddInput holds the fields accepted when adding a participant to a plan.
type AddInput struct {
	Name         string
	LastName     string
	ContactPhone string
	DisplayName  string
	AvatarURL    string
	ContactEmail string
	Role         enums.ParticipantRole
	RSVPStatus   enums.RSVPStatus
}

// UpdateInput is a partial participant patch; nil fields are left unchanged.
type UpdateInput struct {
	Name            *string
	LastName        *string
	ContactPhone    *string
	DisplayName     *string
	AvatarURL       *string
	ContactEmail    *string
	Role            *enums.ParticipantRole
	RSVPStatus      *enums.RSVPStatus
	AdultsCount     *int
	KidsCount       *int
	FoodPreferences *string
	Allergies       *string
	Notes           *string
}

func (s *service) Add(ctx context.Context, planID uuid.UUID, input AddInput) (*models.Participant, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.ContactPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "participant name, last name and contact phone are required")
	}

	role := input.Role
	if role == "" {
		role = enums.ParticipantRoleParticipant
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid participant role")
	}
	rsvp := input.RSVPStatus
	if rsvp == "" {
		rsvp = enums.RSVPStatusPending
	}
	if !rsvp.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rsvp status")
	}

	now := time.Now().UTC()
	participant := models.Participant{
		ID:           uuid.New(),
		PlanID:       planID,
		Name:         strings.TrimSpace(input.Name),
		LastName:     strings.TrimSpace(input.LastName),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		AvatarURL:    strings.TrimSpace(input.AvatarURL),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Role:         role,
		RSVPStatus:   rsvp,
		InviteToken:  store.NewInviteToken(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.store.Update(func(tx *store.Tx) error {
		plan, err := tx.Plan(planID)
		if err != nil {
			return err
		}
		plan.ParticipantIDs = append(plan.ParticipantIDs, participant.ID)
		if participant.Role == enums.ParticipantRoleOwner {
			// Last owner wins.
			id := participant.ID
			plan.OwnerParticipantID = &id
		}
		plan.UpdatedAt = now

		tx.InsertParticipant(participant)
		return tx.PutPlan(plan)
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add participant")
	}
	s.persist(ctx)
	return &participant, nil
}

func (s *service) Update(ctx context.Context, participantID uuid.UUID, patch UpdateInput) (*models.Participant, error) {
	var updated models.Participant
	err := s.store.Update(func(tx *store.Tx) error {
		participant, err := tx.Participant(participantID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "participant name is required")
			}
			participant.Name = name
		}
		if patch.LastName != nil {
			participant.LastName = strings.TrimSpace(*patch.LastName)
		}
		if patch.ContactPhone != nil {
			participant.ContactPhone = strings.TrimSpace(*patch.ContactPhone)
		}
		if patch.DisplayName != nil {
			participant.DisplayName = strings.TrimSpace(*patch.DisplayName)
		}
		if patch.AvatarURL != nil {
			participant.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
		}
		if patch.ContactEmail != nil {
			participant.ContactEmail = strings.TrimSpace(*patch.ContactEmail)
		}
		if patch.RSVPStatus != nil {
			if !patch.RSVPStatus.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid rsvp status")
			}
			participant.RSVPStatus = *patch.RSVPStatus
		}
		if patch.AdultsCount != nil {
			participant.AdultsCount = *patch.AdultsCount
		}
		if patch.KidsCount != nil {
			participant.KidsCount = *patch.KidsCount
		}
		if patch.FoodPreferences != nil {
			participant.FoodPreferences = strings.TrimSpace(*patch.FoodPreferences)
		}
		if patch.Allergies != nil {
			participant.Allergies = strings.TrimSpace(*patch.Allergies)
		}
		if patch.Notes != nil {
			participant.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.Role != nil {
			if !patch.Role.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid participant role")
			}
			participant.Role = *patch.Role
		}
		participant.UpdatedAt = time.Now().UTC()

		if err := tx.PutParticipant(participant); err != nil {
			return err
		}

		// A role change to owner reassigns the owner pointer on every plan
		// that lists this participant as a member (last owner wins).
		if patch.Role != nil && *patch.Role == enums.ParticipantRoleOwner {
			for _, plan := range tx.Plans() {
				if !plan.HasParticipant(participant.ID) {
					continue
				}
				id := participant.ID
				plan.OwnerParticipantID = &id
				plan.UpdatedAt = participant.UpdatedAt
				if err := tx.PutPlan(plan); err != nil {
					return err
				}
			}
		}

		updated = participant
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "participant not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update participant")
	}
	s.persist(ctx)
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, participantID uuid.UUID) error {
	err := s.store.Update(func(tx *store.Tx) error {
		if _, err := tx.Participant(participantID); err != nil {
			return err
		}

		// Clear dangling item assignments before dropping the record.
		for _, it := range tx.Items() {
			if it.AssignedParticipantID == nil || *it.AssignedParticipantID != participantID {
				continue
			}
			it.AssignedParticipantID = nil
			it.UpdatedAt = time.Now().UTC()
			if err := tx.PutItem(it); err != nil {
				return err
			}
		}

		// Detach from every plan; an owned plan is left without an owner
		// rather than re-electing one.
		for _, plan := range tx.Plans() {
			changed := false
			kept := plan.ParticipantIDs[:0]
			for _, pid := range plan.ParticipantIDs {
				if pid == participantID {
					changed = true
					continue
				}
				kept = append(kept, pid)
			}
			plan.ParticipantIDs = kept
			if plan.OwnerParticipantID != nil && *plan.OwnerParticipantID == participantID {
				plan.OwnerParticipantID = nil
				changed = true
			}
			if !changed {
				continue
			}
			plan.UpdatedAt = time.Now().UTC()
			if err := tx.PutPlan(plan); err != nil {
				return err
			}
		}

		return tx.RemoveParticipant(participantID)
	})
	if err == store.ErrNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "participant not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete participant")
	}
	s.persist(ctx)
	return nil
}

func (s *service) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	s.snapshots.Persist(ctx, s.store.Snapshot())
}

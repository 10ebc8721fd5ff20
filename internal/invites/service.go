// Package invites implements the invite token surface: preview, the one-time
// claim handshake, and the guest paths that let an invitee edit their own
// preferences and items without an account.
package invites

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/auth"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

type persister interface {
	Persist(ctx context.Context, snap store.Snapshot)
}

// Service exposes the invite-token operations. All of them resolve the token
// against the plan in the URL; a token minted for another plan behaves like
// an unknown token.
type Service interface {
	Preview(ctx context.Context, planID uuid.UUID, token string) (*Preview, error)
	Claim(ctx context.Context, planID uuid.UUID, token string, identity auth.Identity) (*models.Participant, error)
	UpdatePreferences(ctx context.Context, planID uuid.UUID, token string, input PreferencesInput) (*models.Participant, error)
	AddItem(ctx context.Context, planID uuid.UUID, token string, input items.CreateInput) (*models.Item, error)
	UpdateItem(ctx context.Context, planID uuid.UUID, token string, itemID uuid.UUID, patch items.UpdateInput) (*models.Item, error)
}

type service struct {
	store     *store.Store
	snapshots persister
}

// NewService wires the invite service.
func NewService(st *store.Store, snapshots persister) (Service, error) {
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store required")
	}
	return &service{store: st, snapshots: snapshots}, nil
}

// ParticipantSummary is the redacted view of a co-participant shown to an
// invitee. Contact details never cross this boundary.
type ParticipantSummary struct {
	ID          uuid.UUID             `json:"id"`
	DisplayName string                `json:"display_name"`
	Role        enums.ParticipantRole `json:"role"`
	RSVPStatus  enums.RSVPStatus      `json:"rsvp_status"`
}

// Preview is what an invitee sees before (and after) claiming: the plan, the
// shared item list, redacted co-participants, and their own full record.
type Preview struct {
	Plan         models.Plan          `json:"plan"`
	Participants []ParticipantSummary `json:"participants"`
	Items        []models.Item        `json:"items"`
	Me           models.Participant   `json:"me"`
}

// PreferencesInput is the patch an invitee may apply to their own slot.
type PreferencesInput struct {
	DisplayName     *string
	RSVPStatus      *enums.RSVPStatus
	AdultsCount     *int
	KidsCount       *int
	FoodPreferences *string
	Allergies       *string
	Notes           *string
}

func (s *service) Preview(ctx context.Context, planID uuid.UUID, token string) (*Preview, error) {
	var preview Preview
	err := s.store.View(func(tx *store.Tx) error {
		me, err := resolveInvite(tx, planID, token)
		if err != nil {
			return err
		}
		plan, err := tx.Plan(planID)
		if err != nil {
			return err
		}

		preview.Plan = plan
		preview.Me = me
		preview.Items = tx.ItemsByPlan(planID)
		preview.Participants = []ParticipantSummary{}
		for _, p := range tx.ParticipantsByPlan(planID) {
			preview.Participants = append(preview.Participants, ParticipantSummary{
				ID:          p.ID,
				DisplayName: p.Label(),
				Role:        p.Role,
				RSVPStatus:  p.RSVPStatus,
			})
		}
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "preview invite")
	}
	return &preview, nil
}

// Claim binds the authenticated user to the invited participant slot. A slot
// binds exactly once; a second claim fails even for the same user.
func (s *service) Claim(ctx context.Context, planID uuid.UUID, token string, identity auth.Identity) (*models.Participant, error) {
	var claimed models.Participant
	err := s.store.Update(func(tx *store.Tx) error {
		participant, err := resolveInvite(tx, planID, token)
		if err != nil {
			return err
		}
		if participant.Claimed() {
			return pkgerrors.New(pkgerrors.CodeConflict, "invite already claimed")
		}

		userID := identity.ID
		participant.UserID = &userID
		participant.UpdatedAt = time.Now().UTC()
		if err := tx.PutParticipant(participant); err != nil {
			return err
		}
		claimed = participant
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim invite")
	}
	s.persist(ctx)
	return &claimed, nil
}

// UpdatePreferences patches the invitee's own slot. The token alone
// authorizes this; claiming is not a prerequisite.
func (s *service) UpdatePreferences(ctx context.Context, planID uuid.UUID, token string, input PreferencesInput) (*models.Participant, error) {
	var updated models.Participant
	err := s.store.Update(func(tx *store.Tx) error {
		participant, err := resolveInvite(tx, planID, token)
		if err != nil {
			return err
		}

		if input.DisplayName != nil {
			participant.DisplayName = strings.TrimSpace(*input.DisplayName)
		}
		if input.RSVPStatus != nil {
			if !input.RSVPStatus.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid rsvp status")
			}
			participant.RSVPStatus = *input.RSVPStatus
		}
		if input.AdultsCount != nil {
			if *input.AdultsCount < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "adults count cannot be negative")
			}
			participant.AdultsCount = *input.AdultsCount
		}
		if input.KidsCount != nil {
			if *input.KidsCount < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "kids count cannot be negative")
			}
			participant.KidsCount = *input.KidsCount
		}
		if input.FoodPreferences != nil {
			participant.FoodPreferences = *input.FoodPreferences
		}
		if input.Allergies != nil {
			participant.Allergies = *input.Allergies
		}
		if input.Notes != nil {
			participant.Notes = *input.Notes
		}
		participant.UpdatedAt = time.Now().UTC()

		if err := tx.PutParticipant(participant); err != nil {
			return err
		}
		updated = participant
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update invite preferences")
	}
	s.persist(ctx)
	return &updated, nil
}

// AddItem creates an item on behalf of the invitee. Unless the payload says
// otherwise the item is assigned to the invitee's own slot.
func (s *service) AddItem(ctx context.Context, planID uuid.UUID, token string, input items.CreateInput) (*models.Item, error) {
	var created models.Item
	err := s.store.Update(func(tx *store.Tx) error {
		participant, err := resolveInvite(tx, planID, token)
		if err != nil {
			return err
		}
		if input.AssignedParticipantID == nil {
			id := participant.ID
			input.AssignedParticipantID = &id
		}

		item, err := items.BuildItem(tx, planID, input)
		if err != nil {
			return err
		}
		tx.InsertItem(item)
		created = item
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add invite item")
	}
	s.persist(ctx)
	return &created, nil
}

func (s *service) UpdateItem(ctx context.Context, planID uuid.UUID, token string, itemID uuid.UUID, patch items.UpdateInput) (*models.Item, error) {
	var updated models.Item
	err := s.store.Update(func(tx *store.Tx) error {
		if _, err := resolveInvite(tx, planID, token); err != nil {
			return err
		}
		item, err := tx.Item(itemID)
		if err != nil || item.PlanID != planID {
			return store.ErrNotFound
		}
		if err := items.ApplyPatch(tx, &item, patch); err != nil {
			return err
		}
		if err := tx.PutItem(item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update invite item")
	}
	s.persist(ctx)
	return &updated, nil
}

func (s *service) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	s.snapshots.Persist(ctx, s.store.Snapshot())
}

// resolveInvite maps (plan, token) to the invited participant. A token that
// exists but belongs to a different plan is indistinguishable from a missing
// one.
func resolveInvite(tx *store.Tx, planID uuid.UUID, token string) (models.Participant, error) {
	if token == "" {
		return models.Participant{}, store.ErrNotFound
	}
	participant, err := tx.ParticipantByInvite(token)
	if err != nil || participant.PlanID != planID {
		return models.Participant{}, store.ErrNotFound
	}
	return participant, nil
}

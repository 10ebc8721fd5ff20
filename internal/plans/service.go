// Package plans implements the plan lifecycle: creation with an implicit
// owner participant, patch updates, and the delete cascade. Cross-entity
// consistency (owner membership, item cleanup) is enforced here rather than
// in the transport layer.
package plans

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

// Service exposes plan creation, retrieval, patching, and cascaded deletion.
type Service interface {
	List(ctx context.Context, params ListParams) ([]models.Plan, error)
	Get(ctx context.Context, planID uuid.UUID) (*Detail, error)
	CreateWithOwner(ctx context.Context, input CreateInput) (*Detail, error)
	Update(ctx context.Context, planID uuid.UUID, patch UpdateInput) (*models.Plan, error)
	Delete(ctx context.Context, planID uuid.UUID) error
}

type service struct {
	store     *store.Store
	snapshots persister
}

// NewService wires the plan service. The snapshot persister may be nil when
// persistence is disabled.
func NewService(st *store.Store, snapshots persister) (Service, error) {
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store required")
	}
	return &service{store: st, snapshots: snapshots}, nil
}

// ListParams filters the plan listing.
type ListParams struct {
	Status *enums.PlanStatus
}

// Detail is a plan assembled with its related records.
type Detail struct {
	Plan         models.Plan
	Participants []models.Participant
	Items        []models.Item
}

// MemberInput holds the fields accepted when creating a participant inline.
type MemberInput struct {
	Name         string
	LastName     string
	ContactPhone string
	DisplayName  string
	AvatarURL    string
	ContactEmail string
	Role         enums.ParticipantRole
	RSVPStatus   enums.RSVPStatus
}

// LocationInput holds the structured address fields for a plan location.
type LocationInput struct {
	Label     string
	Address   string
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// CreateInput is the payload for "create plan with owner".
type CreateInput struct {
	Title        string
	Description  string
	Status       enums.PlanStatus
	Visibility   enums.PlanVisibility
	Location     *LocationInput
	StartDate    *time.Time
	EndDate      *time.Time
	Tags         []string
	Owner        MemberInput
	Participants []MemberInput
}

// UpdateInput is a partial plan patch; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *enums.PlanStatus
	Visibility  *enums.PlanVisibility
	Location    *LocationInput
	StartDate   *time.Time
	EndDate     *time.Time
	Tags        []string
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Plan, error) {
	var out []models.Plan
	err := s.store.View(func(tx *store.Tx) error {
		for _, p := range tx.Plans() {
			if params.Status != nil && p.Status != *params.Status {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list plans")
	}
	if out == nil {
		out = []models.Plan{}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, planID uuid.UUID) (*Detail, error) {
	var detail Detail
	err := s.store.View(func(tx *store.Tx) error {
		plan, err := tx.Plan(planID)
		if err != nil {
			return err
		}
		detail.Plan = plan
		detail.Participants = tx.ParticipantsByPlan(planID)
		detail.Items = tx.ItemsByPlan(planID)
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get plan")
	}
	return &detail, nil
}

func (s *service) CreateWithOwner(ctx context.Context, input CreateInput) (*Detail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan title is required")
	}
	if err := validateContactFields(input.Owner); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = enums.PlanStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan status")
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = enums.PlanVisibilityPrivate
	}
	if !visibility.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan visibility")
	}

	now := time.Now().UTC()
	plan := models.Plan{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Visibility:  visibility,
		Location:    buildLocation(input.Location, nil),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Tags:        normalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	owner := buildParticipant(plan.ID, input.Owner, now)
	owner.Role = enums.ParticipantRoleOwner
	owner.RSVPStatus = enums.RSVPStatusConfirmed

	ownerID := owner.ID
	plan.OwnerParticipantID = &ownerID
	plan.ParticipantIDs = []uuid.UUID{ownerID}

	extras := make([]models.Participant, 0, len(input.Participants))
	for _, member := range input.Participants {
		if err := validateContactFields(member); err != nil {
			return nil, err
		}
		if member.RSVPStatus != "" && !member.RSVPStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rsvp status")
		}
		extra := buildParticipant(plan.ID, member, now)
		if member.Role != "" {
			if !member.Role.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid participant role")
			}
			// The creating call establishes exactly one owner. Ownership moves
			// only through the explicit add/update participant paths.
			if member.Role == enums.ParticipantRoleOwner {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional participants cannot take the owner role")
			}
			extra.Role = member.Role
		}
		plan.ParticipantIDs = append(plan.ParticipantIDs, extra.ID)
		extras = append(extras, extra)
	}

	err := s.store.Update(func(tx *store.Tx) error {
		tx.InsertPlan(plan)
		tx.InsertParticipant(owner)
		for _, extra := range extras {
			tx.InsertParticipant(extra)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create plan")
	}
	s.persist(ctx)

	participants := append([]models.Participant{owner}, extras...)
	return &Detail{Plan: plan, Participants: participants, Items: []models.Item{}}, nil
}

func (s *service) Update(ctx context.Context, planID uuid.UUID, patch UpdateInput) (*models.Plan, error) {
	var updated models.Plan
	err := s.store.Update(func(tx *store.Tx) error {
		plan, err := tx.Plan(planID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "plan title is required")
			}
			plan.Title = title
		}
		if patch.Description != nil {
			plan.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Status != nil {
			if !patch.Status.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid plan status")
			}
			plan.Status = *patch.Status
		}
		if patch.Visibility != nil {
			if !patch.Visibility.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid plan visibility")
			}
			plan.Visibility = *patch.Visibility
		}
		if patch.Location != nil {
			plan.Location = buildLocation(patch.Location, plan.Location)
		}
		if patch.StartDate != nil {
			start := *patch.StartDate
			plan.StartDate = &start
		}
		if patch.EndDate != nil {
			end := *patch.EndDate
			plan.EndDate = &end
		}
		if patch.Tags != nil {
			plan.Tags = normalizeTags(patch.Tags)
		}
		plan.UpdatedAt = time.Now().UTC()

		if err := tx.PutPlan(plan); err != nil {
			return err
		}
		updated = plan
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update plan")
	}
	s.persist(ctx)
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, planID uuid.UUID) error {
	err := s.store.Update(func(tx *store.Tx) error {
		if _, err := tx.Plan(planID); err != nil {
			return err
		}
		// Item cascade is load-bearing: nothing with this plan id may remain
		// queryable afterwards. Participants belong to exactly one plan and
		// are removed with it.
		for _, it := range tx.ItemsByPlan(planID) {
			if err := tx.RemoveItem(it.ID); err != nil {
				return err
			}
		}
		for _, p := range tx.ParticipantsByPlan(planID) {
			if err := tx.RemoveParticipant(p.ID); err != nil {
				return err
			}
		}
		return tx.RemovePlan(planID)
	})
	if err == store.ErrNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete plan")
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

func validateContactFields(member MemberInput) error {
	if strings.TrimSpace(member.Name) == "" ||
		strings.TrimSpace(member.LastName) == "" ||
		strings.TrimSpace(member.ContactPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "participant name, last name and contact phone are required")
	}
	return nil
}

func buildParticipant(planID uuid.UUID, member MemberInput, now time.Time) models.Participant {
	rsvp := member.RSVPStatus
	if rsvp == "" {
		rsvp = enums.RSVPStatusPending
	}
	return models.Participant{
		ID:           uuid.New(),
		PlanID:       planID,
		Name:         strings.TrimSpace(member.Name),
		LastName:     strings.TrimSpace(member.LastName),
		DisplayName:  strings.TrimSpace(member.DisplayName),
		AvatarURL:    strings.TrimSpace(member.AvatarURL),
		ContactPhone: strings.TrimSpace(member.ContactPhone),
		ContactEmail: strings.TrimSpace(member.ContactEmail),
		Role:         enums.ParticipantRoleParticipant,
		RSVPStatus:   rsvp,
		InviteToken:  store.NewInviteToken(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func buildLocation(input *LocationInput, existing *models.Location) *models.Location {
	if input == nil {
		return nil
	}
	id := uuid.New()
	if existing != nil {
		id = existing.ID
	}
	return &models.Location{
		ID:        id,
		Label:     strings.TrimSpace(input.Label),
		Address:   strings.TrimSpace(input.Address),
		City:      strings.TrimSpace(input.City),
		Country:   strings.TrimSpace(input.Country),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

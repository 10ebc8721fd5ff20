// Package items implements item CRUD and the bulk mutation engine. The
// build/patch helpers are shared with the invite-scoped guest paths so item
// invariants hold no matter which surface mutates an item.
package items

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
	"github.com/tripmate-app/tripmate-backend/pkg/types"
)

type persister interface {
	Persist(ctx context.Context, snap store.Snapshot)
}

// Service exposes item mutations, including the bulk engine.
type Service interface {
	Create(ctx context.Context, planID uuid.UUID, input CreateInput) (*models.Item, error)
	Update(ctx context.Context, itemID uuid.UUID, patch UpdateInput) (*models.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	BulkUpdate(ctx context.Context, planID uuid.UUID, entries []BulkEntry) (*BulkResult, error)
}

type service struct {
	store     *store.Store
	snapshots persister
}

// NewService wires the item service.
func NewService(st *store.Store, snapshots persister) (Service, error) {
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store required")
	}
	return &service{store: st, snapshots: snapshots}, nil
}

// CreateInput holds the fields accepted when creating an item under a plan.
type CreateInput struct {
	Name                  string
	Category              enums.ItemCategory
	Subcategory           string
	Quantity              *int
	Unit                  enums.ItemUnit
	Status                enums.ItemStatus
	Notes                 string
	AssignedParticipantID *uuid.UUID
}

// UpdateInput is a partial item patch. AssignedParticipant distinguishes
// "unchanged" from an explicit null (unassign).
type UpdateInput struct {
	Name                *string
	Subcategory         *string
	Quantity            *int
	Unit                *enums.ItemUnit
	Status              *enums.ItemStatus
	Notes               *string
	AssignedParticipant types.NullableUUID
}

// BulkEntry is one patch of a bulk mutation. ItemID stays a raw string so an
// unparseable id can still be named in the error report.
type BulkEntry struct {
	ItemID string
	Patch  UpdateInput
}

// BulkError names the entry that failed and why.
type BulkError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BulkResult partitions a batch into applied items and named errors. The
// batch as a whole always succeeds; callers inspect Errors for partial or
// total failure.
type BulkResult struct {
	Items  []models.Item `json:"items"`
	Errors []BulkError   `json:"errors"`
}

func (s *service) Create(ctx context.Context, planID uuid.UUID, input CreateInput) (*models.Item, error) {
	var created models.Item
	err := s.store.Update(func(tx *store.Tx) error {
		if _, err := tx.Plan(planID); err != nil {
			return err
		}
		item, err := BuildItem(tx, planID, input)
		if err != nil {
			return err
		}
		tx.InsertItem(item)
		created = item
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	s.persist(ctx)
	return &created, nil
}

func (s *service) Update(ctx context.Context, itemID uuid.UUID, patch UpdateInput) (*models.Item, error) {
	var updated models.Item
	err := s.store.Update(func(tx *store.Tx) error {
		item, err := tx.Item(itemID)
		if err != nil {
			return err
		}
		if err := ApplyPatch(tx, &item, patch); err != nil {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	s.persist(ctx)
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, itemID uuid.UUID) error {
	err := s.store.Update(func(tx *store.Tx) error {
		return tx.RemoveItem(itemID)
	})
	if err == store.ErrNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	s.persist(ctx)
	return nil
}

// BulkUpdate applies entries independently, in input order. One bad entry
// never aborts the batch: failures are recorded per entry and the rest of
// the batch proceeds.
func (s *service) BulkUpdate(ctx context.Context, planID uuid.UUID, entries []BulkEntry) (*BulkResult, error) {
	result := &BulkResult{Items: []models.Item{}, Errors: []BulkError{}}

	err := s.store.Update(func(tx *store.Tx) error {
		if _, err := tx.Plan(planID); err != nil {
			return err
		}

		for _, entry := range entries {
			itemID, err := uuid.Parse(strings.TrimSpace(entry.ItemID))
			if err != nil {
				result.Errors = append(result.Errors, BulkError{Name: entry.ItemID, Message: "invalid item id"})
				continue
			}

			item, err := tx.Item(itemID)
			if err != nil || item.PlanID != planID {
				result.Errors = append(result.Errors, BulkError{Name: entry.ItemID, Message: "item not found in plan"})
				continue
			}

			if err := ApplyPatch(tx, &item, entry.Patch); err != nil {
				message := "invalid patch"
				if typed := pkgerrors.As(err); typed != nil {
					message = typed.Message()
				}
				result.Errors = append(result.Errors, BulkError{Name: entry.ItemID, Message: message})
				continue
			}
			if err := tx.PutItem(item); err != nil {
				result.Errors = append(result.Errors, BulkError{Name: entry.ItemID, Message: "item vanished mid-batch"})
				continue
			}
			result.Items = append(result.Items, item)
		}
		return nil
	})
	if err == store.ErrNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bulk update items")
	}
	if len(result.Items) > 0 {
		s.persist(ctx)
	}
	return result, nil
}

func (s *service) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	s.snapshots.Persist(ctx, s.store.Snapshot())
}

// BuildItem validates create input against the plan's participants and
// returns a ready-to-insert item with defaults applied (quantity 1, unit
// pcs, status pending).
func BuildItem(tx *store.Tx, planID uuid.UUID, input CreateInput) (models.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if !input.Category.IsValid() {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}

	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity <= 0 {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	unit := input.Unit
	if unit == "" {
		unit = enums.ItemUnitPieces
	}
	if !unit.IsValid() {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item unit")
	}

	status := input.Status
	if status == "" {
		status = enums.ItemStatusPending
	}
	if !status.IsValid() {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item status")
	}

	if input.AssignedParticipantID != nil {
		if err := validateAssignment(tx, planID, *input.AssignedParticipantID); err != nil {
			return models.Item{}, err
		}
	}

	now := time.Now().UTC()
	return models.Item{
		ID:                    uuid.New(),
		PlanID:                planID,
		Name:                  name,
		Category:              input.Category,
		Subcategory:           strings.TrimSpace(input.Subcategory),
		Quantity:              quantity,
		Unit:                  unit,
		Status:                status,
		Notes:                 strings.TrimSpace(input.Notes),
		AssignedParticipantID: input.AssignedParticipantID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// ApplyPatch merges a partial patch into the item, validating each supplied
// field. The item's plan and category are immutable.
func ApplyPatch(tx *store.Tx, item *models.Item, patch UpdateInput) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
		}
		item.Name = name
	}
	if patch.Subcategory != nil {
		item.Subcategory = strings.TrimSpace(*patch.Subcategory)
	}
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
		}
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		if !patch.Unit.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid item unit")
		}
		item.Unit = *patch.Unit
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid item status")
		}
		item.Status = *patch.Status
	}
	if patch.Notes != nil {
		item.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.AssignedParticipant.Valid {
		if patch.AssignedParticipant.Value == nil {
			item.AssignedParticipantID = nil
		} else {
			if err := validateAssignment(tx, item.PlanID, *patch.AssignedParticipant.Value); err != nil {
				return err
			}
			id := *patch.AssignedParticipant.Value
			item.AssignedParticipantID = &id
		}
	}
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func validateAssignment(tx *store.Tx, planID, participantID uuid.UUID) error {
	participant, err := tx.Participant(participantID)
	if err != nil || participant.PlanID != planID {
		return pkgerrors.New(pkgerrors.CodeValidation, "assigned participant does not belong to this plan")
	}
	return nil
}

package items

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
	"github.com/tripmate-app/tripmate-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *store.Store) {
	t.Helper()
	st := store.New()
	svc, err := NewService(st, nil)
	require.NoError(t, err)
	return svc, st
}

func seedPlan(t *testing.T, st *store.Store) (models.Plan, models.Participant) {
	t.Helper()

	now := time.Now().UTC()
	owner := models.Participant{
		ID:           uuid.New(),
		Name:         "Alex",
		LastName:     "Guberman",
		ContactPhone: "+123",
		Role:         enums.ParticipantRoleOwner,
		RSVPStatus:   enums.RSVPStatusConfirmed,
		InviteToken:  store.NewInviteToken(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ownerID := owner.ID
	plan := models.Plan{
		ID:                 uuid.New(),
		Title:              "Summer Trip",
		Status:             enums.PlanStatusDraft,
		Visibility:         enums.PlanVisibilityPrivate,
		OwnerParticipantID: &ownerID,
		ParticipantIDs:     []uuid.UUID{ownerID},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	owner.PlanID = plan.ID

	require.NoError(t, st.Update(func(tx *store.Tx) error {
		tx.InsertPlan(plan)
		tx.InsertParticipant(owner)
		return nil
	}))
	return plan, owner
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)

	created, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name:     "  Tent ",
		Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)
	require.Equal(t, "Tent", created.Name)
	require.Equal(t, plan.ID, created.PlanID)
	require.Equal(t, 1, created.Quantity)
	require.Equal(t, enums.ItemUnitPieces, created.Unit)
	require.Equal(t, enums.ItemStatusPending, created.Status)
	require.Nil(t, created.AssignedParticipantID)
}

func TestCreateValidates(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name: "Tent", Category: enums.ItemCategoryEquipment,
	})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), plan.ID, CreateInput{
		Name: " ", Category: enums.ItemCategoryEquipment,
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Tent", Category: enums.ItemCategory("tools"),
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	zero := 0
	_, err = svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Tent", Category: enums.ItemCategoryEquipment, Quantity: &zero,
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Nothing half-created survives a rejected payload.
	require.NoError(t, st.View(func(tx *store.Tx) error {
		require.Empty(t, tx.ItemsByPlan(plan.ID))
		return nil
	}))
}

func TestCreateRejectsForeignAssignee(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)
	_, otherOwner := seedPlan(t, st)

	foreign := otherOwner.ID
	_, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name:                  "Tent",
		Category:              enums.ItemCategoryEquipment,
		AssignedParticipantID: &foreign,
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateMergesAndHandlesAssignee(t *testing.T) {
	svc, st := newTestService(t)
	plan, owner := seedPlan(t, st)

	created, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Tent", Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)

	qty := 3
	status := enums.ItemStatusPurchased
	ownerID := owner.ID
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{
		Quantity:            &qty,
		Status:              &status,
		AssignedParticipant: types.NullableUUID{Valid: true, Value: &ownerID},
	})
	require.NoError(t, err)
	require.Equal(t, 3, updated.Quantity)
	require.Equal(t, enums.ItemStatusPurchased, updated.Status)
	require.Equal(t, owner.ID, *updated.AssignedParticipantID)
	require.Equal(t, "Tent", updated.Name)

	// Explicit null clears the assignment.
	updated, err = svc.Update(context.Background(), created.ID, UpdateInput{
		AssignedParticipant: types.NullableUUID{Valid: true, Value: nil},
	})
	require.NoError(t, err)
	require.Nil(t, updated.AssignedParticipantID)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateInput{Quantity: &qty})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteRemovesItem(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)

	created, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Tent", Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	err = svc.Delete(context.Background(), created.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, st.View(func(tx *store.Tx) error {
		require.Empty(t, tx.ItemsByPlan(plan.ID))
		return nil
	}))
}

func TestBulkUpdateIsolatesFailures(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)

	tent, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Tent", Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)
	stove, err := svc.Create(context.Background(), plan.ID, CreateInput{
		Name: "Stove", Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)

	qty := 2
	bad := -1
	status := enums.ItemStatusPacked
	result, err := svc.BulkUpdate(context.Background(), plan.ID, []BulkEntry{
		{ItemID: tent.ID.String(), Patch: UpdateInput{Quantity: &qty, Status: &status}},
		{ItemID: "not-a-uuid", Patch: UpdateInput{Quantity: &qty}},
		{ItemID: uuid.New().String(), Patch: UpdateInput{Quantity: &qty}},
		{ItemID: stove.ID.String(), Patch: UpdateInput{Quantity: &bad}},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	require.Equal(t, tent.ID, result.Items[0].ID)
	require.Equal(t, 2, result.Items[0].Quantity)
	require.Equal(t, enums.ItemStatusPacked, result.Items[0].Status)

	require.Len(t, result.Errors, 3)
	require.Equal(t, "not-a-uuid", result.Errors[0].Name)
	require.Equal(t, "invalid item id", result.Errors[0].Message)
	require.Equal(t, "item not found in plan", result.Errors[1].Message)
	require.Equal(t, stove.ID.String(), result.Errors[2].Name)
	require.Equal(t, "quantity must be a positive integer", result.Errors[2].Message)

	// The successful entry was applied, the failed one left intact.
	require.NoError(t, st.View(func(tx *store.Tx) error {
		got, err := tx.Item(tent.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.Quantity)

		untouched, err := tx.Item(stove.ID)
		require.NoError(t, err)
		require.Equal(t, 1, untouched.Quantity)
		return nil
	}))
}

func TestBulkUpdateRejectsItemsFromOtherPlans(t *testing.T) {
	svc, st := newTestService(t)
	plan, _ := seedPlan(t, st)
	other, _ := seedPlan(t, st)

	foreign, err := svc.Create(context.Background(), other.ID, CreateInput{
		Name: "Rice", Category: enums.ItemCategoryFood,
	})
	require.NoError(t, err)

	qty := 5
	result, err := svc.BulkUpdate(context.Background(), plan.ID, []BulkEntry{
		{ItemID: foreign.ID.String(), Patch: UpdateInput{Quantity: &qty}},
	})
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "item not found in plan", result.Errors[0].Message)

	_, err = svc.BulkUpdate(context.Background(), uuid.New(), nil)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

package invites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/auth"
	"github.com/tripmate-app/tripmate-backend/pkg/enums"
	pkgerrors "github.com/tripmate-app/tripmate-backend/pkg/errors"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

func newTestService(t *testing.T) (Service, *store.Store) {
	t.Helper()
	st := store.New()
	svc, err := NewService(st, nil)
	require.NoError(t, err)
	return svc, st
}

func seedPlanWithGuest(t *testing.T, st *store.Store) (models.Plan, models.Participant, models.Participant) {
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
	guest := models.Participant{
		ID:           uuid.New(),
		Name:         "Bob",
		LastName:     "Helper",
		DisplayName:  "Bobby",
		ContactPhone: "+456",
		Role:         enums.ParticipantRoleParticipant,
		RSVPStatus:   enums.RSVPStatusPending,
		InviteToken:  store.NewInviteToken(),
		CreatedAt:    now.Add(time.Second),
		UpdatedAt:    now,
	}
	ownerID := owner.ID
	plan := models.Plan{
		ID:                 uuid.New(),
		Title:              "Summer Trip",
		Status:             enums.PlanStatusActive,
		Visibility:         enums.PlanVisibilityPrivate,
		OwnerParticipantID: &ownerID,
		ParticipantIDs:     []uuid.UUID{ownerID, guest.ID},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	owner.PlanID = plan.ID
	guest.PlanID = plan.ID

	require.NoError(t, st.Update(func(tx *store.Tx) error {
		tx.InsertPlan(plan)
		tx.InsertParticipant(owner)
		tx.InsertParticipant(guest)
		return nil
	}))
	return plan, owner, guest
}

func TestPreviewRedactsCoParticipants(t *testing.T) {
	svc, st := newTestService(t)
	plan, owner, guest := seedPlanWithGuest(t, st)

	preview, err := svc.Preview(context.Background(), plan.ID, guest.InviteToken)
	require.NoError(t, err)
	require.Equal(t, plan.ID, preview.Plan.ID)
	require.Equal(t, guest.ID, preview.Me.ID)
	require.Equal(t, guest.InviteToken, preview.Me.InviteToken)

	require.Len(t, preview.Participants, 2)
	require.Equal(t, owner.ID, preview.Participants[0].ID)
	// Summaries use the display name fallback, never contact details.
	require.Equal(t, "Alex", preview.Participants[0].DisplayName)
	require.Equal(t, "Bobby", preview.Participants[1].DisplayName)
}

func TestPreviewRejectsUnknownOrForeignTokens(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, guest := seedPlanWithGuest(t, st)
	otherPlan, _, _ := seedPlanWithGuest(t, st)

	_, err := svc.Preview(context.Background(), plan.ID, "nope")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Preview(context.Background(), plan.ID, "")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// A valid token scoped to a different plan behaves like a missing one.
	_, err = svc.Preview(context.Background(), otherPlan.ID, guest.InviteToken)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClaimBindsIdentityExactlyOnce(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, guest := seedPlanWithGuest(t, st)

	identity := auth.Identity{ID: uuid.New(), Email: "bob@example.com", Role: "user"}
	claimed, err := svc.Claim(context.Background(), plan.ID, guest.InviteToken, identity)
	require.NoError(t, err)
	require.NotNil(t, claimed.UserID)
	require.Equal(t, identity.ID, *claimed.UserID)

	// A second claim conflicts, even for the same user, and leaves the
	// binding untouched.
	_, err = svc.Claim(context.Background(), plan.ID, guest.InviteToken, identity)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	other := auth.Identity{ID: uuid.New()}
	_, err = svc.Claim(context.Background(), plan.ID, guest.InviteToken, other)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	require.NoError(t, st.View(func(tx *store.Tx) error {
		got, err := tx.Participant(guest.ID)
		require.NoError(t, err)
		require.Equal(t, identity.ID, *got.UserID)
		return nil
	}))
}

func TestClaimUnknownTokenIsNotFound(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, _ := seedPlanWithGuest(t, st)

	_, err := svc.Claim(context.Background(), plan.ID, "nope", auth.Identity{ID: uuid.New()})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdatePreferencesWorksWithoutClaim(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, guest := seedPlanWithGuest(t, st)

	adults := 2
	kids := 1
	food := "vegetarian"
	rsvp := enums.RSVPStatusConfirmed
	display := "  Bobby B  "
	updated, err := svc.UpdatePreferences(context.Background(), plan.ID, guest.InviteToken, PreferencesInput{
		DisplayName:     &display,
		AdultsCount:     &adults,
		KidsCount:       &kids,
		FoodPreferences: &food,
		RSVPStatus:      &rsvp,
	})
	require.NoError(t, err)
	require.Nil(t, updated.UserID)
	require.Equal(t, "Bobby B", updated.DisplayName)
	require.Equal(t, 2, updated.AdultsCount)
	require.Equal(t, 1, updated.KidsCount)
	require.Equal(t, "vegetarian", updated.FoodPreferences)
	require.Equal(t, enums.RSVPStatusConfirmed, updated.RSVPStatus)

	bad := -1
	_, err = svc.UpdatePreferences(context.Background(), plan.ID, guest.InviteToken, PreferencesInput{
		AdultsCount: &bad,
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddItemDefaultsAssignmentToInvitee(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, guest := seedPlanWithGuest(t, st)

	created, err := svc.AddItem(context.Background(), plan.ID, guest.InviteToken, items.CreateInput{
		Name:     "Sleeping bag",
		Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)
	require.Equal(t, plan.ID, created.PlanID)
	require.NotNil(t, created.AssignedParticipantID)
	require.Equal(t, guest.ID, *created.AssignedParticipantID)
	require.Equal(t, enums.ItemStatusPending, created.Status)

	_, err = svc.AddItem(context.Background(), plan.ID, "nope", items.CreateInput{
		Name:     "Sleeping bag",
		Category: enums.ItemCategoryEquipment,
	})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateItemStaysInsidePlan(t *testing.T) {
	svc, st := newTestService(t)
	plan, _, guest := seedPlanWithGuest(t, st)
	otherPlan, _, otherGuest := seedPlanWithGuest(t, st)

	created, err := svc.AddItem(context.Background(), plan.ID, guest.InviteToken, items.CreateInput{
		Name:     "Sleeping bag",
		Category: enums.ItemCategoryEquipment,
	})
	require.NoError(t, err)

	status := enums.ItemStatusPacked
	updated, err := svc.UpdateItem(context.Background(), plan.ID, guest.InviteToken, created.ID, items.UpdateInput{
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, enums.ItemStatusPacked, updated.Status)

	// An invitee on another plan cannot touch the item through their token.
	_, err = svc.UpdateItem(context.Background(), otherPlan.ID, otherGuest.InviteToken, created.ID, items.UpdateInput{
		Status: &status,
	})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

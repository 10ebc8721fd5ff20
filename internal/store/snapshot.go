package store

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

// Snapshot is the serialisable representation of the whole store: a single
// document with three top-level arrays, rewritten after each mutating
// request when persistence is enabled and re-read at process start.
type Snapshot struct {
	Plans        []models.Plan        `json:"plans"`
	Participants []models.Participant `json:"participants"`
	Items        []models.Item        `json:"items"`
}

// Snapshot exports a deep copy of the current state in deterministic order.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	_ = s.View(func(tx *Tx) error {
		snap.Plans = tx.Plans()
		snap.Participants = tx.Participants()
		snap.Items = tx.Items()
		return nil
	})
	return snap
}

// Restore replaces the store contents with the snapshot after validating
// referential integrity. A snapshot that would leave the store inconsistent
// is rejected wholesale; the previous contents are kept.
func (s *Store) Restore(snap Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans = make(map[uuid.UUID]*models.Plan, len(snap.Plans))
	s.participants = make(map[uuid.UUID]*models.Participant, len(snap.Participants))
	s.items = make(map[uuid.UUID]*models.Item, len(snap.Items))

	for i := range snap.Plans {
		cp := clonePlan(&snap.Plans[i])
		s.plans[cp.ID] = &cp
	}
	for i := range snap.Participants {
		cp := cloneParticipant(&snap.Participants[i])
		s.participants[cp.ID] = &cp
	}
	for i := range snap.Items {
		cp := cloneItem(&snap.Items[i])
		s.items[cp.ID] = &cp
	}
	return nil
}

func validateSnapshot(snap Snapshot) error {
	var err error

	planIDs := make(map[uuid.UUID]bool, len(snap.Plans))
	for _, p := range snap.Plans {
		if planIDs[p.ID] {
			err = multierr.Append(err, fmt.Errorf("duplicate plan id %s", p.ID))
		}
		planIDs[p.ID] = true
	}

	participantIDs := make(map[uuid.UUID]uuid.UUID, len(snap.Participants))
	inviteTokens := make(map[string]bool, len(snap.Participants))
	for _, p := range snap.Participants {
		if _, dup := participantIDs[p.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("duplicate participant id %s", p.ID))
		}
		participantIDs[p.ID] = p.PlanID
		if p.InviteToken != "" {
			if inviteTokens[p.InviteToken] {
				err = multierr.Append(err, fmt.Errorf("duplicate invite token for participant %s", p.ID))
			}
			inviteTokens[p.InviteToken] = true
		}
		if !planIDs[p.PlanID] {
			err = multierr.Append(err, fmt.Errorf("participant %s references missing plan %s", p.ID, p.PlanID))
		}
	}

	for _, p := range snap.Plans {
		for _, pid := range p.ParticipantIDs {
			if _, ok := participantIDs[pid]; !ok {
				err = multierr.Append(err, fmt.Errorf("plan %s lists missing participant %s", p.ID, pid))
			}
		}
		if p.OwnerParticipantID != nil && !containsID(p.ParticipantIDs, *p.OwnerParticipantID) {
			err = multierr.Append(err, fmt.Errorf("plan %s owner %s is not a member", p.ID, *p.OwnerParticipantID))
		}
	}

	itemIDs := make(map[uuid.UUID]bool, len(snap.Items))
	for _, it := range snap.Items {
		if itemIDs[it.ID] {
			err = multierr.Append(err, fmt.Errorf("duplicate item id %s", it.ID))
		}
		itemIDs[it.ID] = true
		if !planIDs[it.PlanID] {
			err = multierr.Append(err, fmt.Errorf("item %s references missing plan %s", it.ID, it.PlanID))
		}
		if it.AssignedParticipantID != nil {
			planID, ok := participantIDs[*it.AssignedParticipantID]
			if !ok {
				err = multierr.Append(err, fmt.Errorf("item %s assigned to missing participant %s", it.ID, *it.AssignedParticipantID))
			} else if planID != it.PlanID {
				err = multierr.Append(err, fmt.Errorf("item %s assigned across plans", it.ID))
			}
		}
	}

	return err
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

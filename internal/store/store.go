// Package store holds the three in-memory collections (plans, participants,
// items) behind a single mutual-exclusion scope. Reads hand out deep copies
// so callers can never mutate stored records through aliasing; writes replace
// whole records. Multi-entity cascades run inside Update so the store is
// never observed in an inconsistent state between requests.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

// ErrNotFound signals a lookup by identity that matched nothing. Services
// translate it into the public NOT_FOUND error.
var ErrNotFound = errors.New("record not found")

type Store struct {
	mu           sync.RWMutex
	plans        map[uuid.UUID]*models.Plan
	participants map[uuid.UUID]*models.Participant
	items        map[uuid.UUID]*models.Item
}

func New() *Store {
	return &Store{
		plans:        make(map[uuid.UUID]*models.Plan),
		participants: make(map[uuid.UUID]*models.Participant),
		items:        make(map[uuid.UUID]*models.Item),
	}
}

// Tx exposes the collection primitives to View/Update callbacks. It is only
// valid for the duration of the callback.
type Tx struct {
	s *Store
}

// View runs fn with shared read access.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Update runs fn with exclusive access. Every cascade and the claim
// transition run inside a single Update call, which is what makes them
// atomic with respect to concurrent requests.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// NewInviteToken returns an opaque invite identifier. Tokens are assigned
// once at participant creation and never reused.
func NewInviteToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a uuid
		// rather than panicking inside a request.
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}

// --- plans ---

func (tx *Tx) Plan(id uuid.UUID) (models.Plan, error) {
	p, ok := tx.s.plans[id]
	if !ok {
		return models.Plan{}, ErrNotFound
	}
	return clonePlan(p), nil
}

func (tx *Tx) Plans() []models.Plan {
	out := make([]models.Plan, 0, len(tx.s.plans))
	for _, p := range tx.s.plans {
		out = append(out, clonePlan(p))
	}
	sortByCreation(out, func(p models.Plan) (int64, string) {
		return p.CreatedAt.UnixNano(), p.ID.String()
	})
	return out
}

func (tx *Tx) InsertPlan(p models.Plan) {
	cp := clonePlan(&p)
	tx.s.plans[p.ID] = &cp
}

func (tx *Tx) PutPlan(p models.Plan) error {
	if _, ok := tx.s.plans[p.ID]; !ok {
		return ErrNotFound
	}
	cp := clonePlan(&p)
	tx.s.plans[p.ID] = &cp
	return nil
}

func (tx *Tx) RemovePlan(id uuid.UUID) error {
	if _, ok := tx.s.plans[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.plans, id)
	return nil
}

// --- participants ---

func (tx *Tx) Participant(id uuid.UUID) (models.Participant, error) {
	p, ok := tx.s.participants[id]
	if !ok {
		return models.Participant{}, ErrNotFound
	}
	return cloneParticipant(p), nil
}

func (tx *Tx) Participants() []models.Participant {
	out := make([]models.Participant, 0, len(tx.s.participants))
	for _, p := range tx.s.participants {
		out = append(out, cloneParticipant(p))
	}
	sortByCreation(out, func(p models.Participant) (int64, string) {
		return p.CreatedAt.UnixNano(), p.ID.String()
	})
	return out
}

func (tx *Tx) ParticipantsByPlan(planID uuid.UUID) []models.Participant {
	out := make([]models.Participant, 0)
	for _, p := range tx.s.participants {
		if p.PlanID == planID {
			out = append(out, cloneParticipant(p))
		}
	}
	sortByCreation(out, func(p models.Participant) (int64, string) {
		return p.CreatedAt.UnixNano(), p.ID.String()
	})
	return out
}

// ParticipantByInvite resolves a participant by its invite token. Tokens are
// unique across the whole store.
func (tx *Tx) ParticipantByInvite(token string) (models.Participant, error) {
	for _, p := range tx.s.participants {
		if p.InviteToken == token {
			return cloneParticipant(p), nil
		}
	}
	return models.Participant{}, ErrNotFound
}

// ParticipantByUser finds the participant slot inside a plan already claimed
// by the given identity.
func (tx *Tx) ParticipantByUser(planID, userID uuid.UUID) (models.Participant, error) {
	for _, p := range tx.s.participants {
		if p.PlanID == planID && p.UserID != nil && *p.UserID == userID {
			return cloneParticipant(p), nil
		}
	}
	return models.Participant{}, ErrNotFound
}

func (tx *Tx) InsertParticipant(p models.Participant) {
	cp := cloneParticipant(&p)
	tx.s.participants[p.ID] = &cp
}

func (tx *Tx) PutParticipant(p models.Participant) error {
	if _, ok := tx.s.participants[p.ID]; !ok {
		return ErrNotFound
	}
	cp := cloneParticipant(&p)
	tx.s.participants[p.ID] = &cp
	return nil
}

func (tx *Tx) RemoveParticipant(id uuid.UUID) error {
	if _, ok := tx.s.participants[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.participants, id)
	return nil
}

// --- items ---

func (tx *Tx) Item(id uuid.UUID) (models.Item, error) {
	it, ok := tx.s.items[id]
	if !ok {
		return models.Item{}, ErrNotFound
	}
	return cloneItem(it), nil
}

func (tx *Tx) ItemsByPlan(planID uuid.UUID) []models.Item {
	out := make([]models.Item, 0)
	for _, it := range tx.s.items {
		if it.PlanID == planID {
			out = append(out, cloneItem(it))
		}
	}
	sortByCreation(out, func(it models.Item) (int64, string) {
		return it.CreatedAt.UnixNano(), it.ID.String()
	})
	return out
}

func (tx *Tx) Items() []models.Item {
	out := make([]models.Item, 0, len(tx.s.items))
	for _, it := range tx.s.items {
		out = append(out, cloneItem(it))
	}
	sortByCreation(out, func(it models.Item) (int64, string) {
		return it.CreatedAt.UnixNano(), it.ID.String()
	})
	return out
}

func (tx *Tx) InsertItem(it models.Item) {
	cp := cloneItem(&it)
	tx.s.items[it.ID] = &cp
}

func (tx *Tx) PutItem(it models.Item) error {
	if _, ok := tx.s.items[it.ID]; !ok {
		return ErrNotFound
	}
	cp := cloneItem(&it)
	tx.s.items[it.ID] = &cp
	return nil
}

func (tx *Tx) RemoveItem(id uuid.UUID) error {
	if _, ok := tx.s.items[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.items, id)
	return nil
}

// --- copies ---

func clonePlan(p *models.Plan) models.Plan {
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	cp.ParticipantIDs = append([]uuid.UUID(nil), p.ParticipantIDs...)
	if p.OwnerParticipantID != nil {
		owner := *p.OwnerParticipantID
		cp.OwnerParticipantID = &owner
	}
	if p.Location != nil {
		loc := *p.Location
		if p.Location.Latitude != nil {
			lat := *p.Location.Latitude
			loc.Latitude = &lat
		}
		if p.Location.Longitude != nil {
			lng := *p.Location.Longitude
			loc.Longitude = &lng
		}
		cp.Location = &loc
	}
	if p.StartDate != nil {
		start := *p.StartDate
		cp.StartDate = &start
	}
	if p.EndDate != nil {
		end := *p.EndDate
		cp.EndDate = &end
	}
	return cp
}

func cloneParticipant(p *models.Participant) models.Participant {
	cp := *p
	if p.UserID != nil {
		uid := *p.UserID
		cp.UserID = &uid
	}
	return cp
}

func cloneItem(it *models.Item) models.Item {
	cp := *it
	if it.AssignedParticipantID != nil {
		aid := *it.AssignedParticipantID
		cp.AssignedParticipantID = &aid
	}
	return cp
}

func sortByCreation[T any](records []T, key func(T) (int64, string)) {
	sort.Slice(records, func(i, j int) bool {
		ti, idI := key(records[i])
		tj, idJ := key(records[j])
		if ti != tj {
			return ti < tj
		}
		return idI < idJ
	})
}

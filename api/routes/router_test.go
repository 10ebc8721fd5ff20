package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tripmate-app/tripmate-backend/internal/invites"
	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/internal/participants"
	"github.com/tripmate-app/tripmate-backend/internal/plans"
	"github.com/tripmate-app/tripmate-backend/internal/store"
	pkgAuth "github.com/tripmate-app/tripmate-backend/pkg/auth"
	"github.com/tripmate-app/tripmate-backend/pkg/config"
	"github.com/tripmate-app/tripmate-backend/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "tripmate-test",
			ExpirationMinutes: 5,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	st := store.New()
	planSvc, err := plans.NewService(st, nil)
	if err != nil {
		t.Fatalf("plan service: %v", err)
	}
	participantSvc, err := participants.NewService(st, nil)
	if err != nil {
		t.Fatalf("participant service: %v", err)
	}
	itemSvc, err := items.NewService(st, nil)
	if err != nil {
		t.Fatalf("item service: %v", err)
	}
	inviteSvc, err := invites.NewService(st, nil)
	if err != nil {
		t.Fatalf("invite service: %v", err)
	}

	return NewRouter(testConfig(), nil, prometheus.NewRegistry(), nil, Services{
		Plans:        planSvc,
		Participants: participantSvc,
		Items:        itemSvc,
		Invites:      inviteSvc,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

type detailPayload struct {
	Plan         models.Plan          `json:"plan"`
	Participants []models.Participant `json:"participants"`
	Items        []models.Item        `json:"items"`
}

func TestRouterEndToEndScenario(t *testing.T) {
	router := newTestRouter(t)

	// Create "Summer Trip" with its owner.
	rec := doJSON(t, router, http.MethodPost, "/plans/with-owner", []byte(`{
		"title": "Summer Trip",
		"owner": {"name": "Alex", "last_name": "Guberman", "contact_phone": "+123"}
	}`), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var created detailPayload
	decodeData(t, rec, &created)
	if len(created.Participants) != 1 || len(created.Items) != 0 {
		t.Fatalf("expected 1 participant and 0 items, got %+v", created)
	}
	planID := created.Plan.ID.String()

	// Add Bob as a plain participant.
	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/participants", []byte(`{
		"name": "Bob", "last_name": "Helper", "contact_phone": "+456", "role": "participant"
	}`), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add participant: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var bob models.Participant
	decodeData(t, rec, &bob)
	if bob.InviteToken == "" {
		t.Fatal("participant should carry an invite token")
	}

	// Membership list now has two ids.
	rec = doJSON(t, router, http.MethodGet, "/plans/"+planID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get plan: expected 200 got %d", rec.Code)
	}
	var detail detailPayload
	decodeData(t, rec, &detail)
	if len(detail.Plan.ParticipantIDs) != 2 {
		t.Fatalf("expected 2 participant ids, got %d", len(detail.Plan.ParticipantIDs))
	}

	// Add the tent.
	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/items", []byte(`{
		"name": "Tent", "category": "equipment", "quantity": 1
	}`), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/plans/"+planID, nil, nil)
	decodeData(t, rec, &detail)
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(detail.Items))
	}
	if detail.Items[0].PlanID.String() != planID || detail.Items[0].Status != "pending" {
		t.Fatalf("unexpected item %+v", detail.Items[0])
	}
}

func TestRouterClaimFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/plans/with-owner", []byte(`{
		"title": "Claim Trip",
		"owner": {"name": "Alex", "last_name": "Guberman", "contact_phone": "+123"},
		"participants": [{"name": "Bob", "last_name": "Helper", "contact_phone": "+456"}]
	}`), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var created detailPayload
	decodeData(t, rec, &created)
	planID := created.Plan.ID.String()
	token := created.Participants[1].InviteToken

	// Preview works without credentials and redacts contacts.
	rec = doJSON(t, router, http.MethodGet, "/plans/"+planID+"/invite/"+token, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var preview struct {
		MyParticipantID uuid.UUID `json:"my_participant_id"`
		Participants    []struct {
			DisplayName string `json:"display_name"`
		} `json:"participants"`
	}
	decodeData(t, rec, &preview)
	if preview.MyParticipantID != created.Participants[1].ID {
		t.Fatalf("unexpected my_participant_id %s", preview.MyParticipantID)
	}

	// No bearer identity: claim is rejected regardless of token validity.
	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/claim/"+token, nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("claim without identity: expected 401 got %d", rec.Code)
	}

	userID := uuid.New()
	jwt, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID, Email: "bob@example.com", Role: "user",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	authHeader := map[string]string{"Authorization": "Bearer " + jwt}

	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/claim/"+token, nil, authHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("claim: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var claimed models.Participant
	decodeData(t, rec, &claimed)
	if claimed.UserID == nil || *claimed.UserID != userID {
		t.Fatalf("claim did not bind identity: %+v", claimed)
	}

	// Second claim conflicts and surfaces as 400.
	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/claim/"+token, nil, authHeader)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second claim: expected 400 got %d", rec.Code)
	}

	// A malformed bearer still yields an identity (anonymous) for guest flows.
	rec = doJSON(t, router, http.MethodGet, "/auth/me", nil, map[string]string{"Authorization": "Bearer garbage"})
	if rec.Code != http.StatusOK {
		t.Fatalf("auth/me with malformed bearer: expected 200 got %d", rec.Code)
	}
	var me struct {
		User pkgAuth.Identity `json:"user"`
	}
	decodeData(t, rec, &me)
	if me.User.ID != pkgAuth.Anonymous.ID {
		t.Fatalf("expected anonymous identity, got %+v", me.User)
	}
}

func TestRouterBulkAndHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/plans/with-owner", []byte(`{
		"title": "Bulk Trip",
		"owner": {"name": "Alex", "last_name": "Guberman", "contact_phone": "+123"}
	}`), nil)
	var created detailPayload
	decodeData(t, rec, &created)
	planID := created.Plan.ID.String()

	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/items", []byte(`{
		"name": "Tent", "category": "equipment"
	}`), nil)
	var tent models.Item
	decodeData(t, rec, &tent)

	rec = doJSON(t, router, http.MethodPost, "/plans/"+planID+"/items/bulk", []byte(`[
		{"item_id": "`+tent.ID.String()+`", "quantity": 4},
		{"item_id": "`+uuid.NewString()+`", "quantity": 2}
	]`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Items  []models.Item `json:"items"`
		Errors []struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeData(t, rec, &result)
	if len(result.Items) != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected 1 item and 1 error, got %+v", result)
	}
	if result.Items[0].Quantity != 4 {
		t.Fatalf("patch not applied: %+v", result.Items[0])
	}

	// Applied patch is observable via a follow-up GET.
	rec = doJSON(t, router, http.MethodGet, "/plans/"+planID, nil, nil)
	var detail detailPayload
	decodeData(t, rec, &detail)
	if detail.Items[0].Quantity != 4 {
		t.Fatalf("bulk patch lost: %+v", detail.Items[0])
	}

	// Unknown plan 404s before any entry is considered.
	rec = doJSON(t, router, http.MethodPost, "/plans/"+uuid.NewString()+"/items/bulk", []byte(`[]`), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bulk unknown plan: expected 404 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/health/live", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health live: expected 200 got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200 got %d", rec.Code)
	}
}

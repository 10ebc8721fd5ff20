package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNullableUUIDAbsentFieldStaysInvalid(t *testing.T) {
	var payload struct {
		Assignee NullableUUID `json:"assignee"`
	}
	if err := json.Unmarshal([]byte(`{}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Assignee.Valid {
		t.Fatal("absent field should not be valid")
	}
}

func TestNullableUUIDNullMeansClear(t *testing.T) {
	var payload struct {
		Assignee NullableUUID `json:"assignee"`
	}
	if err := json.Unmarshal([]byte(`{"assignee": null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Assignee.Valid || payload.Assignee.Value != nil {
		t.Fatalf("null should be valid with nil value, got %+v", payload.Assignee)
	}
}

func TestNullableUUIDValue(t *testing.T) {
	id := uuid.New()
	var payload struct {
		Assignee NullableUUID `json:"assignee"`
	}
	if err := json.Unmarshal([]byte(`{"assignee": "`+id.String()+`"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Assignee.Valid || payload.Assignee.Value == nil || *payload.Assignee.Value != id {
		t.Fatalf("unexpected %+v", payload.Assignee)
	}

	clone := payload.Assignee.Clone()
	*clone.Value = uuid.New()
	if *payload.Assignee.Value != id {
		t.Fatal("clone should not alias the original value")
	}
}

func TestNullableUUIDRejectsGarbage(t *testing.T) {
	var payload struct {
		Assignee NullableUUID `json:"assignee"`
	}
	if err := json.Unmarshal([]byte(`{"assignee": "not-a-uuid"}`), &payload); err == nil {
		t.Fatal("expected error for malformed uuid")
	}
}

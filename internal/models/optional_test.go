package models

import (
	"encoding/json"
	"testing"
)

func TestOptional_AbsentNullPresent(t *testing.T) {
	type body struct {
		Description Optional[string] `json:"description"`
	}

	var absent body
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if absent.Description.Set {
		t.Error("expected absent field to have Set=false")
	}

	var null body
	if err := json.Unmarshal([]byte(`{"description": null}`), &null); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !null.Description.Set || null.Description.Valid {
		t.Errorf("expected null field to be Set and not Valid, got %+v", null.Description)
	}

	var empty body
	if err := json.Unmarshal([]byte(`{"description": ""}`), &empty); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !empty.Description.Set || !empty.Description.Valid {
		t.Errorf("expected empty string to be Set and Valid, got %+v", empty.Description)
	}
	if empty.Description.Value != "" {
		t.Errorf("expected empty string value, got %q", empty.Description.Value)
	}

	var present body
	if err := json.Unmarshal([]byte(`{"description": "notes"}`), &present); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if present.Description.Value != "notes" {
		t.Errorf("expected %q, got %q", "notes", present.Description.Value)
	}
}

func TestOptional_TypedValues(t *testing.T) {
	type body struct {
		CategoryID Optional[int64]    `json:"category_id"`
		Tags       Optional[[]string] `json:"tags"`
		Completed  Optional[bool]     `json:"is_completed"`
	}

	var b body
	payload := `{"category_id": 4, "tags": ["a", "b"], "is_completed": false}`
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if b.CategoryID.Value != 4 {
		t.Errorf("expected category 4, got %d", b.CategoryID.Value)
	}
	if len(b.Tags.Value) != 2 {
		t.Errorf("expected 2 tags, got %v", b.Tags.Value)
	}
	if !b.Completed.Set || !b.Completed.Valid || b.Completed.Value {
		t.Errorf("expected explicit false, got %+v", b.Completed)
	}

	var bad body
	if err := json.Unmarshal([]byte(`{"category_id": "four"}`), &bad); err == nil {
		t.Error("expected type error for non-integer category_id")
	}
}

package tenant

import (
	"context"
	"testing"
)

func TestUpdateDefaultsMerges(t *testing.T) {
	s := NewService(NewInMemoryStore())
	ctx := context.Background()

	if _, err := s.UpdateDefaults(ctx, Defaults{EmailAdapter: "ches", Renderer: "mustache"}); err != nil {
		t.Fatalf("UpdateDefaults failed: %v", err)
	}
	got, err := s.UpdateDefaults(ctx, Defaults{EmailIdentityID: "id-1"})
	if err != nil {
		t.Fatalf("UpdateDefaults failed: %v", err)
	}

	if got.EmailAdapter != "ches" || got.Renderer != "mustache" {
		t.Errorf("earlier fields lost: %+v", got)
	}
	if got.EmailIdentityID != "id-1" {
		t.Errorf("new field not merged: %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Error("updatedAt not stamped")
	}
}

func TestUpdateDefaultsEmptyFieldsLeaveExisting(t *testing.T) {
	s := NewService(NewInMemoryStore())
	ctx := context.Background()

	if _, err := s.UpdateDefaults(ctx, Defaults{SMSAdapter: "twilio"}); err != nil {
		t.Fatalf("UpdateDefaults failed: %v", err)
	}
	got, err := s.UpdateDefaults(ctx, Defaults{})
	if err != nil {
		t.Fatalf("UpdateDefaults failed: %v", err)
	}
	if got.SMSAdapter != "twilio" {
		t.Errorf("empty partial cleared a field: %+v", got)
	}
}

func TestGetDefaultsStartsEmpty(t *testing.T) {
	s := NewService(NewInMemoryStore())
	got, err := s.GetDefaults(context.Background())
	if err != nil {
		t.Fatalf("GetDefaults failed: %v", err)
	}
	if got != (Defaults{}) {
		t.Errorf("fresh store not empty: %+v", got)
	}
}

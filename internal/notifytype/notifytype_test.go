package notifytype

import (
	"context"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
)

func strPtr(s string) *string { return &s }

func TestCreateNotifyType(t *testing.T) {
	s := NewService(NewStore())
	ctx := context.Background()

	nt, err := s.CreateNotifyType(ctx, &CreateRequest{
		Code: "welcome", SendAs: "email", TemplateID: "tpl-1",
		Params: map[string]string{"greeting": "hi"},
	})
	if err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}
	if nt.ID == "" || nt.Code != "welcome" {
		t.Errorf("created = %+v", nt)
	}

	t.Run("code required", func(t *testing.T) {
		if _, err := s.CreateNotifyType(ctx, &CreateRequest{}); !apierr.Is(err, apierr.CodeBadRequest) {
			t.Errorf("err = %v, want bad_request", err)
		}
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		if _, err := s.CreateNotifyType(ctx, &CreateRequest{Code: "welcome"}); !apierr.Is(err, apierr.CodeConflict) {
			t.Errorf("err = %v, want conflict", err)
		}
	})
}

func TestGetByCode(t *testing.T) {
	s := NewService(NewStore())
	ctx := context.Background()

	created, err := s.CreateNotifyType(ctx, &CreateRequest{Code: "reminder"})
	if err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}

	if got := s.GetByCode(ctx, "reminder"); got == nil || got.ID != created.ID {
		t.Errorf("GetByCode = %+v, want %s", got, created.ID)
	}
	if got := s.GetByCode(ctx, "missing"); got != nil {
		t.Errorf("GetByCode(missing) = %+v, want nil", got)
	}
}

func TestUpdateNotifyType(t *testing.T) {
	s := NewService(NewStore())
	ctx := context.Background()

	first, err := s.CreateNotifyType(ctx, &CreateRequest{Code: "a"})
	if err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}
	if _, err := s.CreateNotifyType(ctx, &CreateRequest{Code: "b"}); err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}

	t.Run("rename reindexes code", func(t *testing.T) {
		if _, err := s.UpdateNotifyType(ctx, first.ID, &UpdateRequest{Code: strPtr("c")}); err != nil {
			t.Fatalf("UpdateNotifyType failed: %v", err)
		}
		if got := s.GetByCode(ctx, "a"); got != nil {
			t.Errorf("old code still resolves: %+v", got)
		}
		if got := s.GetByCode(ctx, "c"); got == nil || got.ID != first.ID {
			t.Errorf("new code = %+v", got)
		}
	})

	t.Run("rename onto taken code conflicts", func(t *testing.T) {
		if _, err := s.UpdateNotifyType(ctx, first.ID, &UpdateRequest{Code: strPtr("b")}); !apierr.Is(err, apierr.CodeConflict) {
			t.Errorf("err = %v, want conflict", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := s.UpdateNotifyType(ctx, "nope", &UpdateRequest{}); !apierr.Is(err, apierr.CodeNotFound) {
			t.Errorf("err = %v, want not_found", err)
		}
	})
}

func TestDeleteNotifyType(t *testing.T) {
	s := NewService(NewStore())
	ctx := context.Background()

	nt, err := s.CreateNotifyType(ctx, &CreateRequest{Code: "gone"})
	if err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}
	if err := s.DeleteNotifyType(ctx, nt.ID); err != nil {
		t.Fatalf("DeleteNotifyType failed: %v", err)
	}
	if got := s.GetByCode(ctx, "gone"); got != nil {
		t.Errorf("deleted code still resolves: %+v", got)
	}
	if err := s.DeleteNotifyType(ctx, nt.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("second delete err = %v, want not_found", err)
	}
}

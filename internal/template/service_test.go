package template

import (
	"context"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
)

func strPtr(s string) *string { return &s }

func newTestService() *Service {
	return NewService(NewInMemoryStore())
}

func TestCreateTemplate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	t.Run("defaults to active version 1", func(t *testing.T) {
		tpl, err := s.CreateTemplate(ctx, &CreateRequest{
			Name: "welcome", Type: ChannelEmail, Body: "Hello {{ name }}",
		})
		if err != nil {
			t.Fatalf("CreateTemplate failed: %v", err)
		}
		if !tpl.Active {
			t.Error("template not active by default")
		}
		if tpl.Version != 1 {
			t.Errorf("version = %d, want 1", tpl.Version)
		}
		if tpl.ID == "" {
			t.Error("id not assigned")
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *CreateRequest
		}{
			{"missing body", &CreateRequest{Name: "x", Type: ChannelEmail}},
			{"missing name", &CreateRequest{Type: ChannelEmail, Body: "b"}},
			{"bad channel", &CreateRequest{Name: "x", Type: "push", Body: "b"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := s.CreateTemplate(ctx, tc.req); !apierr.Is(err, apierr.CodeBadRequest) {
					t.Errorf("err = %v, want bad_request", err)
				}
			})
		}
	})
}

func TestUpdateTemplateBumpsVersion(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	tpl, err := s.CreateTemplate(ctx, &CreateRequest{
		Name: "welcome", Type: ChannelEmail, Body: "v1",
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	updated, err := s.UpdateTemplate(ctx, tpl.ID, &UpdateRequest{Body: strPtr("v2")})
	if err != nil {
		t.Fatalf("UpdateTemplate failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}
	if updated.Body != "v2" {
		t.Errorf("body = %q", updated.Body)
	}
	if updated.Name != "welcome" {
		t.Errorf("untouched field changed: name = %q", updated.Name)
	}
	if !updated.UpdatedAt.After(tpl.UpdatedAt) && !updated.UpdatedAt.Equal(tpl.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v < %v", updated.UpdatedAt, tpl.UpdatedAt)
	}
}

func TestGetTemplatesChannelFilter(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	for _, ch := range []Channel{ChannelEmail, ChannelEmail, ChannelSMS} {
		if _, err := s.CreateTemplate(ctx, &CreateRequest{
			Name: "t", Type: ch, Body: "b",
		}); err != nil {
			t.Fatalf("CreateTemplate failed: %v", err)
		}
	}

	all, err := s.GetTemplates(ctx, "")
	if err != nil {
		t.Fatalf("GetTemplates failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d templates, want 3", len(all))
	}

	sms, err := s.GetTemplates(ctx, ChannelSMS)
	if err != nil {
		t.Fatalf("GetTemplates(sms) failed: %v", err)
	}
	if len(sms) != 1 || sms[0].Type != ChannelSMS {
		t.Errorf("sms filter returned %+v", sms)
	}
}

func TestDeleteTemplate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	tpl, err := s.CreateTemplate(ctx, &CreateRequest{
		Name: "welcome", Type: ChannelEmail, Body: "b",
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	if err := s.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := s.GetTemplate(ctx, tpl.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("get after delete err = %v, want not_found", err)
	}
	if err := s.DeleteTemplate(ctx, tpl.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("second delete err = %v, want not_found", err)
	}
}

func TestStoreResolverMissingIsNil(t *testing.T) {
	r := NewStoreResolver(NewInMemoryStore())
	tpl, err := r.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if tpl != nil {
		t.Errorf("tpl = %+v, want nil for missing id", tpl)
	}
}

package identity

import (
	"context"
	"sync"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
)

func boolPtr(b bool) *bool { return &b }

func newTestService() *Service {
	return NewService(NewInMemoryStore())
}

func mustCreate(t *testing.T, s *Service, req *CreateRequest) *Sender {
	t.Helper()
	sender, err := s.CreateSender(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateSender failed: %v", err)
	}
	return sender
}

func countDefaults(t *testing.T, s *Service, channel string) int {
	t.Helper()
	senders, err := s.GetSenders(context.Background(), "")
	if err != nil {
		t.Fatalf("GetSenders failed: %v", err)
	}
	n := 0
	for _, sender := range senders {
		if sender.IsDefault && sender.Type.Intersects(channel) {
			n++
		}
	}
	return n
}

func TestCreateSenderValidation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateRequest
	}{
		{"unknown type", &CreateRequest{Type: "fax"}},
		{"email without address", &CreateRequest{Type: TypeEmail}},
		{"sms without sender", &CreateRequest{Type: TypeSMS}},
		{"combined missing sms", &CreateRequest{Type: TypeEmailSMS, EmailAddress: "a@x.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateSender(ctx, tc.req); !apierr.Is(err, apierr.CodeBadRequest) {
				t.Errorf("err = %v, want bad_request", err)
			}
		})
	}
}

func TestNewDefaultClearsPrevious(t *testing.T) {
	s := newTestService()

	first := mustCreate(t, s, &CreateRequest{
		Type: TypeEmail, EmailAddress: "first@x.com", IsDefault: boolPtr(true),
	})
	second := mustCreate(t, s, &CreateRequest{
		Type: TypeEmail, EmailAddress: "second@x.com", IsDefault: boolPtr(true),
	})

	if n := countDefaults(t, s, "email"); n != 1 {
		t.Fatalf("got %d email defaults, want 1", n)
	}

	resolved, err := s.ResolveForChannel(context.Background(), "", "email")
	if err != nil {
		t.Fatalf("ResolveForChannel failed: %v", err)
	}
	if resolved == nil || resolved.ID != second.ID {
		t.Errorf("default = %+v, want %s", resolved, second.ID)
	}

	stored, err := s.GetSender(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("GetSender failed: %v", err)
	}
	if stored.IsDefault {
		t.Error("previous default was not cleared")
	}
}

func TestCombinedDefaultClearsBothChannels(t *testing.T) {
	s := newTestService()

	mustCreate(t, s, &CreateRequest{
		Type: TypeEmail, EmailAddress: "mail@x.com", IsDefault: boolPtr(true),
	})
	mustCreate(t, s, &CreateRequest{
		Type: TypeSMS, SMSSender: "+15550000001", IsDefault: boolPtr(true),
	})
	combined := mustCreate(t, s, &CreateRequest{
		Type: TypeEmailSMS, EmailAddress: "both@x.com", SMSSender: "+15550000002",
		IsDefault: boolPtr(true),
	})

	for _, channel := range []string{"email", "sms"} {
		if n := countDefaults(t, s, channel); n != 1 {
			t.Errorf("got %d %s defaults, want 1", n, channel)
		}
		resolved, err := s.ResolveForChannel(context.Background(), "", channel)
		if err != nil {
			t.Fatalf("ResolveForChannel(%s) failed: %v", channel, err)
		}
		if resolved == nil || resolved.ID != combined.ID {
			t.Errorf("%s default = %+v, want combined sender", channel, resolved)
		}
	}
}

func TestConcurrentDefaultUpdates(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	ids := make([]string, 8)
	for i := range ids {
		sender := mustCreate(t, s, &CreateRequest{
			Type: TypeEmail, EmailAddress: "sender@x.com",
		})
		ids[i] = sender.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := s.UpdateSender(ctx, id, &UpdateRequest{IsDefault: boolPtr(true)}); err != nil {
				t.Errorf("UpdateSender(%s) failed: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if n := countDefaults(t, s, "email"); n != 1 {
		t.Errorf("got %d email defaults after concurrent updates, want 1", n)
	}
}

func TestResolveForChannel(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	sender := mustCreate(t, s, &CreateRequest{Type: TypeEmail, EmailAddress: "a@x.com"})

	t.Run("explicit id", func(t *testing.T) {
		resolved, err := s.ResolveForChannel(ctx, sender.ID, "email")
		if err != nil {
			t.Fatalf("ResolveForChannel failed: %v", err)
		}
		if resolved.ID != sender.ID {
			t.Errorf("resolved %s, want %s", resolved.ID, sender.ID)
		}
	})

	t.Run("explicit id absent", func(t *testing.T) {
		_, err := s.ResolveForChannel(ctx, "missing-id", "email")
		if !apierr.Is(err, apierr.CodeNotFound) {
			t.Errorf("err = %v, want not_found", err)
		}
	})

	t.Run("no default is nil nil", func(t *testing.T) {
		resolved, err := s.ResolveForChannel(ctx, "", "email")
		if err != nil {
			t.Fatalf("ResolveForChannel failed: %v", err)
		}
		if resolved != nil {
			t.Errorf("resolved = %+v, want nil", resolved)
		}
	})

	t.Run("default must intersect channel", func(t *testing.T) {
		mustCreate(t, s, &CreateRequest{
			Type: TypeSMS, SMSSender: "+15550000009", IsDefault: boolPtr(true),
		})
		resolved, err := s.ResolveForChannel(ctx, "", "email")
		if err != nil {
			t.Fatalf("ResolveForChannel failed: %v", err)
		}
		if resolved != nil {
			t.Errorf("sms default leaked into email resolution: %+v", resolved)
		}
	})
}

func TestDeleteSender(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	sender := mustCreate(t, s, &CreateRequest{Type: TypeEmail, EmailAddress: "a@x.com"})
	if err := s.DeleteSender(ctx, sender.ID); err != nil {
		t.Fatalf("DeleteSender failed: %v", err)
	}
	if err := s.DeleteSender(ctx, sender.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("second delete err = %v, want not_found", err)
	}
}

package supabase

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestClientFromRequest_ExtractsUserID(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "test-key")
	t.Setenv("SUPABASE_JWT_SECRET", "test-secret")

	token, err := SignUserToken("user-123")
	if err != nil {
		t.Fatalf("SignUserToken failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/sessions", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	client, userID, err := ClientFromRequest(r)
	if err != nil {
		t.Fatalf("ClientFromRequest failed: %v", err)
	}
	if client == nil {
		t.Fatalf("expected a client")
	}
	if userID != "user-123" {
		t.Fatalf("unexpected user id: %q", userID)
	}
}

func TestClientFromRequest_MissingHeaderIsNotAuthenticated(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "test-key")

	r := httptest.NewRequest("GET", "/sessions", nil)

	if _, _, err := ClientFromRequest(r); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestClientFromRequest_GarbageTokenIsNotAuthenticated(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "test-key")

	r := httptest.NewRequest("GET", "/sessions", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")

	if _, _, err := ClientFromRequest(r); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

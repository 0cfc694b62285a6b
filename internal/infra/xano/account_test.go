package xano

import (
	"context"
	"net/http"
	"testing"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

func TestClient_LoginReturnsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"authToken": "fresh-token"}`))
	}, &memTokenStore{})

	token, err := client.Login(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("expected fresh-token, got %q", token)
	}
}

func TestClient_LoginRejectsMissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	}, &memTokenStore{})

	if _, err := client.Login(context.Background(), "user@example.com", "secret"); err == nil {
		t.Fatal("expected error when response carries no auth token")
	}
}

func TestClient_VerifyMapsProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 42,
			"email": "user@example.com",
			"name": "Ada",
			"company": "Acme",
			"lead_quota_remaining": 250,
			"API_Key": "cl_live_abc123",
			"plan_id": 1,
			"created_at": "2025-01-15T10:00:00Z"
		}`))
	}, &memTokenStore{token: "tok"})

	user, err := client.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if user.ID != "42" {
		t.Errorf("expected id 42, got %q", user.ID)
	}
	if user.Credits != 250 {
		t.Errorf("expected 250 credits, got %d", user.Credits)
	}
	if user.APIKey != "cl_live_abc123" {
		t.Errorf("API_Key field not mapped, got %q", user.APIKey)
	}
	if user.Plan != domain.PlanPro {
		t.Errorf("expected pro plan for plan_id 1, got %s", user.Plan)
	}
}

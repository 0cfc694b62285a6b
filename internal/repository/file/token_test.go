package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robertboulos/clearleads/internal/repository"
)

func newStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token"))
	if err != nil {
		t.Fatalf("NewTokenStore failed: %v", err)
	}
	return store
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store := newStore(t)

	if err := store.Save("session-token"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "session-token" {
		t.Errorf("expected session-token, got %q", token)
	}
}

func TestTokenStore_MissingTokenIsNotFound(t *testing.T) {
	store := newStore(t)

	if _, err := store.Token(); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	store := newStore(t)

	if err := store.Save("session-token"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
	if _, err := store.Token(); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestTokenStore_RejectsEmptyToken(t *testing.T) {
	store := newStore(t)

	if err := store.Save("   "); err == nil {
		t.Fatal("expected error when storing an empty token")
	}
}

func TestTokenStore_OwnerOnlyPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	store, err := NewTokenStore(path)
	if err != nil {
		t.Fatalf("NewTokenStore failed: %v", err)
	}

	if err := store.Save("session-token"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestNewTokenStore_RequiresPath(t *testing.T) {
	if _, err := NewTokenStore("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

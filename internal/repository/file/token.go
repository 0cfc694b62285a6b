// Package file implements file-backed stores for the small amount of state
// that must survive process restarts.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robertboulos/clearleads/internal/repository"
)

// TokenStore keeps the backend session token in a single file with owner-only
// permissions. It is the desktop analogue of the browser's local storage slot.
type TokenStore struct {
	path string
}

// NewTokenStore builds a TokenStore rooted at the supplied path.
func NewTokenStore(path string) (*TokenStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("token store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &TokenStore{path: path}, nil
}

// Token returns the stored credential or repository.ErrNotFound when absent.
func (s *TokenStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", repository.ErrNotFound
	}
	return token, nil
}

// Save writes the credential, replacing any previous one.
func (s *TokenStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the credential. Clearing an absent token is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/core/port"
	"github.com/robertboulos/clearleads/internal/infra/logger"
	"github.com/robertboulos/clearleads/internal/repository"
)

var (
	// ErrCredentialsRequired indicates a login or register call missing mandatory fields.
	ErrCredentialsRequired = errors.New("email and password are required")
	// ErrNotAuthenticated indicates the operation needs a signed-in session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthService owns the user session: the bearer token and the mirrored
// profile. Session state changes only through these operations (and the
// global 401 invalidation hook).
type AuthService struct {
	api    port.AccountAPI
	tokens port.TokenStore
	log    *zap.Logger

	mu    sync.RWMutex
	user  *domain.User
	token string
}

// NewAuthService constructs an AuthService.
func NewAuthService(api port.AccountAPI, tokens port.TokenStore, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{api: api, tokens: tokens, log: log}
}

// Bootstrap restores a persisted session at startup. A stored token that the
// backend rejects is discarded silently; the user just signs in again.
func (s *AuthService) Bootstrap(ctx context.Context) {
	token, err := s.tokens.Token()
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("failed to read stored token", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.Verify(ctx)
	if err != nil {
		s.log.Info("stored session rejected, discarding", zap.Error(err))
		s.Logout()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.log.Info("session restored", zap.String("email", logger.MaskEmail(user.Email)))
}

// Login exchanges credentials for a session. The token is persisted before
// the profile fetch so the verify call can authenticate with it.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrCredentialsRequired
	}

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.tokens.Save(token); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.Verify(ctx)
	if err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	return user, nil
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Email == "" || reg.Password == "" {
		return domain.User{}, ErrCredentialsRequired
	}

	user, token, err := s.api.Register(ctx, reg)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.tokens.Save(token); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	return user, nil
}

// Logout destroys the session locally. The backend keeps no session state
// beyond the token itself.
func (s *AuthService) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("failed to clear stored token", zap.Error(err))
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// RefreshUser re-fetches the profile. A rejected refresh ends the session,
// mirroring the product's forced sign-out behavior.
func (s *AuthService) RefreshUser(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return nil
	}

	user, err := s.api.Verify(ctx)
	if err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// UpdateProfile patches profile fields and adopts the refreshed profile.
func (s *AuthService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if !s.IsAuthenticated() {
		return domain.User{}, ErrNotAuthenticated
	}

	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

// ChangePassword rotates the account password.
func (s *AuthService) ChangePassword(ctx context.Context, current, updated string) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if current == "" || updated == "" {
		return ErrCredentialsRequired
	}
	return s.api.ChangePassword(ctx, current, updated)
}

// FetchAPIKey returns the validation API key, consulting the backend when
// the mirrored profile does not carry one.
func (s *AuthService) FetchAPIKey(ctx context.Context) (string, error) {
	if !s.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	if key, ok := s.APIKey(); ok {
		return key, nil
	}

	key, err := s.api.APIKey(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.APIKey = key
	}
	s.mu.Unlock()
	return key, nil
}

// RegenerateAPIKey rotates the validation API key and updates the mirrored profile.
func (s *AuthService) RegenerateAPIKey(ctx context.Context) (string, error) {
	if !s.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	key, err := s.api.RegenerateAPIKey(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.APIKey = key
	}
	s.mu.Unlock()
	return key, nil
}

// CurrentUser returns the mirrored profile when a session exists.
func (s *AuthService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// APIKey returns the session's validation API key when available.
func (s *AuthService) APIKey() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.APIKey == "" {
		return "", false
	}
	return s.user.APIKey, true
}

// IsAuthenticated reports whether a session token is held.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// TokenExpiry reports the session token's expiry claim when the token is a
// decodable JWT. The claim is read without signature verification; only the
// backend can actually validate the token.
func (s *AuthService) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

// HandleUnauthorized is wired as the backend client's 401 hook: the stored
// credential is already gone, so the in-memory session follows it.
func (s *AuthService) HandleUnauthorized() {
	s.mu.Lock()
	hadSession := s.token != ""
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if hadSession {
		s.log.Warn("session invalidated by backend, sign-in required")
	}
}

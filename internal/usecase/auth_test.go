package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/repository"
)

// Fakes for auth testing

type accountAPIMock struct {
	token      string
	user       domain.User
	loginErr   error
	verifyErr  error
	newAPIKey  string
	loginCalls int
}

func (m *accountAPIMock) Login(_ context.Context, email, password string) (string, error) {
	m.loginCalls++
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

func (m *accountAPIMock) Register(_ context.Context, reg domain.Registration) (domain.User, string, error) {
	if m.loginErr != nil {
		return domain.User{}, "", m.loginErr
	}
	return m.user, m.token, nil
}

func (m *accountAPIMock) Verify(_ context.Context) (domain.User, error) {
	if m.verifyErr != nil {
		return domain.User{}, m.verifyErr
	}
	return m.user, nil
}

func (m *accountAPIMock) UpdateProfile(_ context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if m.verifyErr != nil {
		return domain.User{}, m.verifyErr
	}
	user := m.user
	if update.Name != "" {
		user.Name = update.Name
	}
	m.user = user
	return user, nil
}

func (m *accountAPIMock) ChangePassword(_ context.Context, current, updated string) error {
	return m.loginErr
}

func (m *accountAPIMock) APIKey(_ context.Context) (string, error) {
	return m.user.APIKey, nil
}

func (m *accountAPIMock) RegenerateAPIKey(_ context.Context) (string, error) {
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	return m.newAPIKey, nil
}

type tokenStoreMock struct {
	token   string
	saveErr error
}

func (m *tokenStoreMock) Token() (string, error) {
	if m.token == "" {
		return "", repository.ErrNotFound
	}
	return m.token, nil
}

func (m *tokenStoreMock) Save(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *tokenStoreMock) Clear() error {
	m.token = ""
	return nil
}

func testUser() domain.User {
	return domain.User{
		ID:     "42",
		Email:  "user@example.com",
		Name:   "Ada",
		APIKey: "cl_live_abc123",
		Plan:   domain.PlanPro,
	}
}

// Tests

func TestAuthService_Login_Success(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	tokens := &tokenStoreMock{}
	service := NewAuthService(api, tokens, nil)

	user, err := service.Login(context.Background(), "  user@example.com  ", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if user.Email != "user@example.com" {
		t.Errorf("expected profile mirrored, got %+v", user)
	}
	if tokens.token != "session-token" {
		t.Errorf("expected token persisted, got %q", tokens.token)
	}
	if !service.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}
	if key, ok := service.APIKey(); !ok || key != "cl_live_abc123" {
		t.Errorf("expected api key from mirrored profile, got %q", key)
	}
}

func TestAuthService_Login_RequiresCredentials(t *testing.T) {
	api := &accountAPIMock{}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "   ", "secret"); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if _, err := service.Login(context.Background(), "user@example.com", ""); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if api.loginCalls != 0 {
		t.Error("guard must fail before any backend call")
	}
}

func TestAuthService_Login_BackendErrorLeavesSignedOut(t *testing.T) {
	api := &accountAPIMock{loginErr: errors.New("invalid credentials")}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "wrong"); err == nil {
		t.Fatal("expected login error to propagate")
	}
	if service.IsAuthenticated() {
		t.Error("failed login must not create a session")
	}
}

func TestAuthService_Register_SignsIn(t *testing.T) {
	api := &accountAPIMock{token: "fresh-token", user: testUser()}
	tokens := &tokenStoreMock{}
	service := NewAuthService(api, tokens, nil)

	user, err := service.Register(context.Background(), domain.Registration{
		Name:     "Ada",
		Email:    "user@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID != "42" {
		t.Errorf("expected profile returned, got %+v", user)
	}
	if !service.IsAuthenticated() {
		t.Error("registration must sign the user in")
	}
	if tokens.token != "fresh-token" {
		t.Errorf("expected token persisted, got %q", tokens.token)
	}
}

func TestAuthService_Logout_ClearsEverything(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	tokens := &tokenStoreMock{}
	service := NewAuthService(api, tokens, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	service.Logout()

	if service.IsAuthenticated() {
		t.Error("expected signed-out session")
	}
	if tokens.token != "" {
		t.Error("expected stored token cleared")
	}
	if _, ok := service.CurrentUser(); ok {
		t.Error("expected mirrored profile cleared")
	}
}

func TestAuthService_Bootstrap_RestoresSession(t *testing.T) {
	api := &accountAPIMock{user: testUser()}
	tokens := &tokenStoreMock{token: "stored-token"}
	service := NewAuthService(api, tokens, nil)

	service.Bootstrap(context.Background())

	if !service.IsAuthenticated() {
		t.Fatal("expected session restored from stored token")
	}
	if user, ok := service.CurrentUser(); !ok || user.ID != "42" {
		t.Errorf("expected profile fetched, got %+v", user)
	}
}

func TestAuthService_Bootstrap_DiscardsRejectedToken(t *testing.T) {
	api := &accountAPIMock{verifyErr: errors.New("unauthorized")}
	tokens := &tokenStoreMock{token: "stale-token"}
	service := NewAuthService(api, tokens, nil)

	service.Bootstrap(context.Background())

	if service.IsAuthenticated() {
		t.Error("rejected token must not yield a session")
	}
	if tokens.token != "" {
		t.Error("rejected token must be cleared from the store")
	}
}

func TestAuthService_Bootstrap_NoStoredToken(t *testing.T) {
	api := &accountAPIMock{user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	service.Bootstrap(context.Background())

	if service.IsAuthenticated() {
		t.Error("no stored token, no session")
	}
}

func TestAuthService_RefreshUser_FailureEndsSession(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	tokens := &tokenStoreMock{}
	service := NewAuthService(api, tokens, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	api.verifyErr = errors.New("unauthorized")
	if err := service.RefreshUser(context.Background()); err == nil {
		t.Fatal("expected refresh error to propagate")
	}

	if service.IsAuthenticated() {
		t.Error("failed refresh must end the session")
	}
}

func TestAuthService_UpdateProfile_RequiresSession(t *testing.T) {
	service := NewAuthService(&accountAPIMock{}, &tokenStoreMock{}, nil)

	if _, err := service.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "New"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAuthService_UpdateProfile_AdoptsRefreshedProfile(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	updated, err := service.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "Grace"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Grace" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if user, _ := service.CurrentUser(); user.Name != "Grace" {
		t.Errorf("mirror must adopt the refreshed profile, got %q", user.Name)
	}
}

func TestAuthService_ChangePassword_Guards(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if err := service.ChangePassword(context.Background(), "a", "b"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := service.ChangePassword(context.Background(), "", "b"); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), "old", "new"); err != nil {
		t.Errorf("ChangePassword failed: %v", err)
	}
}

func TestAuthService_FetchAPIKey(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.FetchAPIKey(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	key, err := service.FetchAPIKey(context.Background())
	if err != nil {
		t.Fatalf("FetchAPIKey failed: %v", err)
	}
	if key != "cl_live_abc123" {
		t.Errorf("expected mirrored key, got %q", key)
	}
}

func TestAuthService_RegenerateAPIKey_UpdatesMirror(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser(), newAPIKey: "cl_live_rotated"}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	key, err := service.RegenerateAPIKey(context.Background())
	if err != nil {
		t.Fatalf("RegenerateAPIKey failed: %v", err)
	}
	if key != "cl_live_rotated" {
		t.Errorf("expected rotated key, got %q", key)
	}
	if got, _ := service.APIKey(); got != "cl_live_rotated" {
		t.Errorf("mirror must adopt the rotated key, got %q", got)
	}
}

func TestAuthService_HandleUnauthorized_EndsSession(t *testing.T) {
	api := &accountAPIMock{token: "session-token", user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	service.HandleUnauthorized()

	if service.IsAuthenticated() {
		t.Error("401 hook must end the in-memory session")
	}
	if _, ok := service.CurrentUser(); ok {
		t.Error("401 hook must drop the mirrored profile")
	}
}

func TestAuthService_TokenExpiry_NonJWTToken(t *testing.T) {
	api := &accountAPIMock{token: "opaque-token", user: testUser()}
	service := NewAuthService(api, &tokenStoreMock{}, nil)

	if _, err := service.Login(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, ok := service.TokenExpiry(); ok {
		t.Error("opaque tokens carry no readable expiry")
	}
}

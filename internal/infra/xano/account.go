package xano

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/infra/logger"
)

type loginResponse struct {
	AuthToken string `json:"authToken"`
}

type registerResponse struct {
	UserID    json.Number `json:"user_id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	APIKey    string      `json:"api_key"`
	AuthToken string      `json:"authToken"`
	Message   string      `json:"message"`
}

// profileResponse is the auth/verify payload. Field casing follows the
// backend schema, API_Key included.
type profileResponse struct {
	ID                 json.Number     `json:"id"`
	Email              string          `json:"email"`
	Name               string          `json:"name"`
	Company            string          `json:"company"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Zip                string          `json:"zip"`
	Country            string          `json:"country"`
	LeadQuotaRemaining int             `json:"lead_quota_remaining"`
	CreatedAt          json.RawMessage `json:"created_at"`
	APIKey             string          `json:"API_Key"`
	PlanID             int             `json:"plan_id"`
}

func (p profileResponse) toUser() domain.User {
	return domain.User{
		ID:            p.ID.String(),
		Email:         p.Email,
		Name:          p.Name,
		Company:       p.Company,
		Phone:         p.Phone,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		Country:       p.Country,
		Plan:          domain.PlanFromID(p.PlanID),
		Credits:       p.LeadQuotaRemaining,
		APIKey:        p.APIKey,
		CreatedAt:     parseTimestamp(p.CreatedAt, time.Now().UTC()),
		EmailVerified: true,
	}
}

// Login exchanges credentials for a session token. The caller is responsible
// for persisting the token before any authenticated follow-up call.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	raw, err := c.post(ctx, pathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.AuthToken == "" {
		return "", fmt.Errorf("login response missing auth token")
	}

	c.log.Info("login succeeded", maskedEmailField(email))
	return resp.AuthToken, nil
}

// Register creates an account and returns the initial profile plus token.
// New accounts start on the starter plan with zero credits.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.User, string, error) {
	raw, err := c.post(ctx, pathRegister, map[string]string{
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
		"company":  reg.Company,
		"phone":    reg.Phone,
		"address":  reg.Address,
		"city":     reg.City,
		"state":    reg.State,
		"zip":      reg.Zip,
		"country":  reg.Country,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	var resp registerResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.AuthToken == "" {
		return domain.User{}, "", fmt.Errorf("register response missing auth token")
	}

	user := domain.User{
		ID:            resp.UserID.String(),
		Email:         resp.Email,
		Name:          resp.Name,
		Plan:          domain.PlanStarter,
		Credits:       0,
		APIKey:        resp.APIKey,
		CreatedAt:     time.Now().UTC(),
		EmailVerified: true,
	}

	c.log.Info("registration succeeded", maskedEmailField(reg.Email))
	return user, resp.AuthToken, nil
}

// Verify fetches the authenticated profile. The auth/me endpoint is avoided
// on purpose: it rejects valid sessions with 403 on this backend.
func (c *Client) Verify(ctx context.Context) (domain.User, error) {
	raw, err := c.get(ctx, pathVerify, nil)
	if err != nil {
		return domain.User{}, err
	}

	var profile profileResponse
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.User{}, fmt.Errorf("decode profile: %w", err)
	}

	return profile.toUser(), nil
}

// UpdateProfile patches profile fields and returns the refreshed profile.
// Plan, credits, and API key are re-read from verify since the update
// endpoint echoes only the edited fields.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if _, err := c.patch(ctx, pathUpdateProfile, map[string]string{
		"name":    update.Name,
		"company": update.Company,
		"phone":   update.Phone,
		"address": update.Address,
		"city":    update.City,
		"state":   update.State,
		"zip":     update.Zip,
		"country": update.Country,
	}); err != nil {
		return domain.User{}, err
	}

	return c.Verify(ctx)
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	_, err := c.post(ctx, pathChangePassword, map[string]string{
		"current_password": current,
		"new_password":     updated,
	})
	return err
}

// APIKey returns the account's validation API key.
func (c *Client) APIKey(ctx context.Context) (string, error) {
	raw, err := c.get(ctx, pathGetAPIKey, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode api key: %w", err)
	}
	return resp.APIKey, nil
}

// RegenerateAPIKey rotates and returns the account's validation API key.
func (c *Client) RegenerateAPIKey(ctx context.Context) (string, error) {
	raw, err := c.post(ctx, pathRegenerateAPIKey, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode api key: %w", err)
	}

	c.log.Info("api key regenerated", zap.String("api_key", logger.MaskString(resp.APIKey)))
	return resp.APIKey, nil
}

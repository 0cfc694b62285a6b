package xano

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

type validateRequest struct {
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	APIKey string `json:"api_key"`
}

type historyEnvelope struct {
	Validations []json.RawMessage `json:"validations"`
	Pagination  struct {
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
		Total   int `json:"total"`
	} `json:"pagination"`
}

// Validate submits one email and/or phone for validation and normalizes
// whatever response shape the backend returns.
func (c *Client) Validate(ctx context.Context, req domain.ValidationRequest) (domain.ValidationOutcome, error) {
	return c.validate(ctx, pathValidateSingle, req)
}

// ValidateAgent runs the same validation through the backend's agent
// pipeline. Request and response contract are identical to Validate.
func (c *Client) ValidateAgent(ctx context.Context, req domain.ValidationRequest) (domain.ValidationOutcome, error) {
	return c.validate(ctx, pathValidateAgent, req)
}

func (c *Client) validate(ctx context.Context, path string, req domain.ValidationRequest) (domain.ValidationOutcome, error) {
	raw, err := c.post(ctx, path, validateRequest{
		Email:  req.Email,
		Phone:  req.Phone,
		APIKey: req.APIKey,
	})
	if err != nil {
		return domain.ValidationOutcome{}, err
	}

	outcome := Normalize(req, raw, time.Now().UTC())
	c.log.Info("validation completed",
		maskedEmailField(req.Email),
		maskedPhoneField(req.Phone),
		zap.String("status", string(outcome.Result.Status)),
		zap.Bool("cached", outcome.Cached))

	return outcome, nil
}

// History fetches one page of past validations. The page replaces any local
// view wholesale; records keep backend order.
func (c *Client) History(ctx context.Context, page, limit int) (domain.HistoryPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(limit))

	raw, err := c.get(ctx, pathValidationHistory, params)
	if err != nil {
		return domain.HistoryPage{}, err
	}

	var envelope historyEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log.Warn("unexpected history payload", zap.Error(err))
		return domain.HistoryPage{Page: page, Limit: limit}, nil
	}

	results := make([]domain.ValidationResult, 0, len(envelope.Validations))
	now := time.Now().UTC()
	for _, record := range envelope.Validations {
		outcome := Normalize(domain.ValidationRequest{}, record, now)
		results = append(results, outcome.Result)
	}

	total := envelope.Pagination.Total
	if total == 0 {
		total = len(results)
	}

	return domain.HistoryPage{
		Results: results,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

// Export downloads the validation history in the requested format.
func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}

	raw, err := c.get(ctx, pathValidationExport, params)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

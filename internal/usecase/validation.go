package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/core/port"
	"github.com/robertboulos/clearleads/internal/infra/logger"
)

var (
	// ErrValidationInputRequired indicates neither an email nor a phone was supplied.
	ErrValidationInputRequired = errors.New("email or phone is required")
	// ErrAPIKeyMissing indicates no validation API key is available in the current session.
	ErrAPIKeyMissing = errors.New("api key unavailable: sign in first")
	// ErrInsufficientCredits indicates the local balance cannot cover the call.
	ErrInsufficientCredits = errors.New("insufficient credits: purchase more credits to continue")
)

// apiKeySource supplies the signed-in account's validation API key.
type apiKeySource interface {
	APIKey() (string, bool)
}

// creditLedger is the local credit mirror consulted around validation calls.
type creditLedger interface {
	Has(amount int) bool
	Deduct(amount int)
	SetBalance(balance int)
}

// ValidationService owns the in-memory validation state: the recent result
// list (most-recent-first), the last fetched history page, and derived
// stats. It is the single mutation path for that state.
type ValidationService struct {
	api     port.ValidationAPI
	session apiKeySource
	credits creditLedger
	log     *zap.Logger

	mu      sync.RWMutex
	results []domain.ValidationResult
	history domain.HistoryPage

	now func() time.Time
}

// NewValidationService constructs a ValidationService.
func NewValidationService(api port.ValidationAPI, session apiKeySource, credits creditLedger, log *zap.Logger) *ValidationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ValidationService{
		api:     api,
		session: session,
		credits: credits,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *ValidationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ValidateSingle validates one email and/or phone. Local guards (input,
// API key, credit balance) fail before any network call. On success the
// result is prepended to the recent list and the credit mirror is updated:
// authoritatively when the backend reports a remaining balance, otherwise
// by an optimistic clamped deduction.
func (s *ValidationService) ValidateSingle(ctx context.Context, email, phone string) (domain.ValidationResult, error) {
	return s.validate(ctx, email, phone, s.api.Validate)
}

// ValidateAgent runs the backend's agent validation pipeline with the same
// guards, storage, and credit accounting as ValidateSingle.
func (s *ValidationService) ValidateAgent(ctx context.Context, email, phone string) (domain.ValidationResult, error) {
	return s.validate(ctx, email, phone, s.api.ValidateAgent)
}

func (s *ValidationService) validate(ctx context.Context, email, phone string, call func(context.Context, domain.ValidationRequest) (domain.ValidationOutcome, error)) (domain.ValidationResult, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return domain.ValidationResult{}, ErrValidationInputRequired
	}

	apiKey, ok := s.session.APIKey()
	if !ok || apiKey == "" {
		return domain.ValidationResult{}, ErrAPIKeyMissing
	}

	if s.credits != nil && !s.credits.Has(1) {
		return domain.ValidationResult{}, ErrInsufficientCredits
	}

	outcome, err := call(ctx, domain.ValidationRequest{
		Email:  email,
		Phone:  phone,
		APIKey: apiKey,
	})
	if err != nil {
		return domain.ValidationResult{}, err
	}

	result := outcome.Result

	s.mu.Lock()
	s.results = append([]domain.ValidationResult{result}, s.results...)
	s.mu.Unlock()

	if s.credits != nil {
		if outcome.HasCreditsRemaining {
			s.credits.SetBalance(outcome.CreditsRemaining)
		} else {
			s.credits.Deduct(result.CreditsUsed)
		}
	}

	s.log.Info("lead validated",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("phone", logger.MaskPhone(phone)),
		zap.String("status", string(result.Status)),
		zap.Int("credits_used", result.CreditsUsed))

	return result, nil
}

// AddResult inserts an externally constructed result after re-applying the
// store's invariants: non-nil string-only details, confidence bound to
// status, at least one credit charged, and identifier/timestamp fallbacks.
func (s *ValidationService) AddResult(result domain.ValidationResult) {
	now := s.now()

	if result.Details == nil {
		result.Details = map[string]string{}
	}
	if result.Status == domain.StatusValid {
		result.Confidence = 100
	} else {
		result.Confidence = 0
	}
	if result.CreditsUsed <= 0 {
		result.CreditsUsed = 1
	}
	if result.ID == "" {
		result.ID = strconv.FormatInt(now.UnixNano(), 10)
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}

	s.mu.Lock()
	s.results = append([]domain.ValidationResult{result}, s.results...)
	s.mu.Unlock()
}

// FetchHistory loads one page of past validations, replacing the local
// history wholesale. Pages are never merged.
func (s *ValidationService) FetchHistory(ctx context.Context, page, limit int) (domain.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	fetched, err := s.api.History(ctx, page, limit)
	if err != nil {
		return domain.HistoryPage{}, err
	}

	s.mu.Lock()
	s.history = fetched
	s.mu.Unlock()

	return fetched, nil
}

// Results returns a copy of the recent results, most recent first.
func (s *ValidationService) Results() []domain.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ValidationResult, len(s.results))
	copy(out, s.results)
	return out
}

// History returns a copy of the last fetched history page.
func (s *ValidationService) History() domain.HistoryPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page := s.history
	page.Results = make([]domain.ValidationResult, len(s.history.Results))
	copy(page.Results, s.history.Results)
	return page
}

// ClearResults empties the recent result list. History is untouched.
func (s *ValidationService) ClearResults() {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()
}

// Stats derives aggregate figures from the recent results.
func (s *ValidationService) Stats() domain.ValidationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.ValidationStats{Total: len(s.results)}
	for _, result := range s.results {
		switch result.Status {
		case domain.StatusValid:
			stats.Valid++
		case domain.StatusInvalid:
			stats.Invalid++
		}
		stats.CreditsUsed += result.CreditsUsed
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Valid) / float64(stats.Total) * 100
	}
	return stats
}

// Export downloads the full validation history in the requested format.
func (s *ValidationService) Export(ctx context.Context, format string) ([]byte, error) {
	return s.api.Export(ctx, format)
}

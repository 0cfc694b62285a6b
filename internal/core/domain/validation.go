package domain

import "time"

// ValidationStatus enumerates the canonical outcome of a validation call.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusInvalid ValidationStatus = "invalid"
	StatusRisky   ValidationStatus = "risky"
	StatusUnknown ValidationStatus = "unknown"
)

// ValidationRequest carries the inputs for a single validation call.
// At least one of Email or Phone must be set; APIKey is always required.
type ValidationRequest struct {
	Email  string
	Phone  string
	APIKey string
}

// ValidationResult is the canonical local shape of one validation outcome,
// regardless of which backend response format produced it.
type ValidationResult struct {
	ID          string
	Email       string
	Phone       string
	Status      ValidationStatus
	Confidence  int
	CreditsUsed int
	Details     map[string]string
	CreatedAt   time.Time
}

// ValidationOutcome bundles a normalized result with the authoritative
// credit balance when the backend reports one alongside the result.
type ValidationOutcome struct {
	Result              ValidationResult
	CreditsRemaining    int
	HasCreditsRemaining bool
	Cached              bool
}

// HistoryPage is one wholesale page of past validations as reported by the
// backend. Pages are never merged client-side.
type HistoryPage struct {
	Results []ValidationResult
	Page    int
	Limit   int
	Total   int
}

// ValidationStats summarizes the recent in-memory results.
type ValidationStats struct {
	Total       int
	Valid       int
	Invalid     int
	SuccessRate float64
	CreditsUsed int
}

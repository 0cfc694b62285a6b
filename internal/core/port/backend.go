// Package port defines the narrow interfaces the usecase layer consumes.
// Implementations live under internal/infra and internal/repository.
package port

import (
	"context"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

// ValidationAPI is the backend surface for validating leads and reading
// validation history.
type ValidationAPI interface {
	Validate(ctx context.Context, req domain.ValidationRequest) (domain.ValidationOutcome, error)
	ValidateAgent(ctx context.Context, req domain.ValidationRequest) (domain.ValidationOutcome, error)
	History(ctx context.Context, page, limit int) (domain.HistoryPage, error)
	Export(ctx context.Context, format string) ([]byte, error)
}

// CreditsAPI exposes the backend's authoritative credit state.
type CreditsAPI interface {
	Balance(ctx context.Context) (domain.CreditsSnapshot, error)
}

// AccountAPI covers authentication and profile management.
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, string, error)
	Verify(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error)
	ChangePassword(ctx context.Context, current, updated string) error
	APIKey(ctx context.Context) (string, error)
	RegenerateAPIKey(ctx context.Context) (string, error)
}

// BatchAPI covers CSV batch validation workflows.
type BatchAPI interface {
	UploadCSV(ctx context.Context, csvContent, batchName, apiKey string) (domain.BatchJob, error)
	Process(ctx context.Context, batchID, emailColumn, phoneColumn string) (string, error)
	Status(ctx context.Context, batchID string) (domain.BatchJob, error)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/core/port"
)

var (
	// ErrCSVRequired indicates an empty batch upload.
	ErrCSVRequired = errors.New("csv content is required")
	// ErrBatchIDRequired indicates a batch operation without an identifier.
	ErrBatchIDRequired = errors.New("batch id is required")
	// ErrEmailColumnRequired indicates processing was requested without a mapped email column.
	ErrEmailColumnRequired = errors.New("email column is required")
)

// BatchService is a thin pass-through over the backend's batch workflow.
// Jobs run server-side; nothing is scheduled locally.
type BatchService struct {
	api     port.BatchAPI
	session apiKeySource
	log     *zap.Logger
	now     func() time.Time
}

// NewBatchService constructs a BatchService.
func NewBatchService(api port.BatchAPI, session apiKeySource, log *zap.Logger) *BatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchService{
		api:     api,
		session: session,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upload submits CSV content for batch validation. An omitted batch name
// gets a generated one so jobs stay distinguishable in the backend UI.
func (s *BatchService) Upload(ctx context.Context, csvContent, batchName string) (domain.BatchJob, error) {
	if strings.TrimSpace(csvContent) == "" {
		return domain.BatchJob{}, ErrCSVRequired
	}

	apiKey, ok := s.session.APIKey()
	if !ok || apiKey == "" {
		return domain.BatchJob{}, ErrAPIKeyMissing
	}

	if strings.TrimSpace(batchName) == "" {
		batchName = "Batch Upload " + s.now().Format(time.RFC3339)
	}

	job, err := s.api.UploadCSV(ctx, csvContent, batchName, apiKey)
	if err != nil {
		return domain.BatchJob{}, err
	}

	if job.ID == "" {
		// Some backend revisions acknowledge without an id; keep the job
		// addressable locally until the first status poll supplies one.
		job.ID = uuid.NewString()
	}

	return job, nil
}

// Process starts server-side processing with the given column mapping.
func (s *BatchService) Process(ctx context.Context, batchID, emailColumn, phoneColumn string) (string, error) {
	if strings.TrimSpace(batchID) == "" {
		return "", ErrBatchIDRequired
	}
	if strings.TrimSpace(emailColumn) == "" {
		return "", ErrEmailColumnRequired
	}
	return s.api.Process(ctx, batchID, emailColumn, phoneColumn)
}

// Status polls the backend for batch progress.
func (s *BatchService) Status(ctx context.Context, batchID string) (domain.BatchJob, error) {
	if strings.TrimSpace(batchID) == "" {
		return domain.BatchJob{}, ErrBatchIDRequired
	}
	return s.api.Status(ctx, batchID)
}

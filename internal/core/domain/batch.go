package domain

import "time"

// BatchStatus enumerates server-side batch processing states.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// BatchJob mirrors one CSV validation batch tracked by the backend.
type BatchJob struct {
	ID            string
	FileName      string
	TotalRows     int
	ProcessedRows int
	ValidCount    int
	InvalidCount  int
	Status        BatchStatus
	Progress      int
	CreditsUsed   int
	ResultsURL    string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Done reports whether the batch reached a terminal state.
func (b BatchJob) Done() bool {
	return b.Status == BatchCompleted || b.Status == BatchFailed
}

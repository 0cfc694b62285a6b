package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/transport/http/middleware"
)

// ErrorResponse is the generic error payload with a correlation id.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request id.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: middleware.GetRequestID(c),
	}
}

// MessageResponse is a simple acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResultView is the wire form of a validation result.
type ValidationResultView struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Status      string            `json:"status"`
	Confidence  int               `json:"confidence"`
	CreditsUsed int               `json:"creditsUsed"`
	Details     map[string]string `json:"details"`
	CreatedAt   string            `json:"createdAt"`
}

func toResultView(result domain.ValidationResult) ValidationResultView {
	return ValidationResultView{
		ID:          result.ID,
		Email:       result.Email,
		Phone:       result.Phone,
		Status:      string(result.Status),
		Confidence:  result.Confidence,
		CreditsUsed: result.CreditsUsed,
		Details:     result.Details,
		CreatedAt:   result.CreatedAt.Format(time.RFC3339),
	}
}

func toResultViews(results []domain.ValidationResult) []ValidationResultView {
	views := make([]ValidationResultView, 0, len(results))
	for _, result := range results {
		views = append(views, toResultView(result))
	}
	return views
}

// UserView is the wire form of the account profile. The API key is exposed
// masked-free here on purpose: the gateway is the user's own tooling.
type UserView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	Plan      string `json:"plan"`
	Credits   int    `json:"credits"`
	APIKey    string `json:"apiKey"`
	CreatedAt string `json:"createdAt"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Company:   user.Company,
		Phone:     user.Phone,
		Address:   user.Address,
		City:      user.City,
		State:     user.State,
		Zip:       user.Zip,
		Country:   user.Country,
		Plan:      string(user.Plan),
		Credits:   user.Credits,
		APIKey:    user.APIKey,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// TransactionView is the wire form of one credit ledger entry.
type TransactionView struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Amount            int    `json:"amount"`
	Description       string `json:"description"`
	CreatedAt         string `json:"createdAt"`
	RelatedValidation string `json:"relatedValidation,omitempty"`
}

// BatchJobView is the wire form of a batch job.
type BatchJobView struct {
	ID            string `json:"id"`
	FileName      string `json:"fileName,omitempty"`
	TotalRows     int    `json:"totalRows"`
	ProcessedRows int    `json:"processedRows"`
	ValidCount    int    `json:"validCount"`
	InvalidCount  int    `json:"invalidCount"`
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	ResultsURL    string `json:"resultsUrl,omitempty"`
	CreatedAt     string `json:"createdAt"`
	CompletedAt   string `json:"completedAt,omitempty"`
}

func toBatchView(job domain.BatchJob) BatchJobView {
	view := BatchJobView{
		ID:            job.ID,
		FileName:      job.FileName,
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		ValidCount:    job.ValidCount,
		InvalidCount:  job.InvalidCount,
		Status:        string(job.Status),
		Progress:      job.Progress,
		ResultsURL:    job.ResultsURL,
		CreatedAt:     job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		view.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return view
}

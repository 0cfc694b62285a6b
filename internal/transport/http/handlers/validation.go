package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/usecase"
)

// ValidationHandler exposes lead validation, recent results, and history.
type ValidationHandler struct {
	validation *usecase.ValidationService
}

// NewValidationHandler builds a ValidationHandler.
func NewValidationHandler(validation *usecase.ValidationService) *ValidationHandler {
	return &ValidationHandler{validation: validation}
}

// RegisterRoutes wires the validation endpoints onto the supplied group.
func (h *ValidationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads/validate", h.Validate)
	rg.GET("/validations/recent", h.Recent)
	rg.DELETE("/validations/recent", h.Clear)
	rg.GET("/validations/stats", h.Stats)
	rg.GET("/validations/history", h.History)
	rg.GET("/validations/export", h.Export)
}

// ValidateRequest is the payload for a single validation. Agent selects the
// backend's agent pipeline; request and response shape are the same.
type ValidateRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,e164"`
	Agent bool   `json:"agent"`
}

// Validate checks one email and/or phone against the backend.
func (h *ValidationHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid validation payload"))
		return
	}

	validate := h.validation.ValidateSingle
	if req.Agent {
		validate = h.validation.ValidateAgent
	}

	result, err := validate(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidationInputRequired, Status: http.StatusBadRequest, Message: "email or phone is required"},
			{Err: usecase.ErrAPIKeyMissing, Status: http.StatusUnauthorized, Message: "api key unavailable: sign in first"},
			{Err: usecase.ErrInsufficientCredits, Status: http.StatusPaymentRequired, Message: "insufficient credits"},
		}, http.StatusInternalServerError, "validation failed")
		return
	}

	c.JSON(http.StatusOK, toResultView(result))
}

// Recent returns the in-memory recent results, most recent first.
func (h *ValidationHandler) Recent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": toResultViews(h.validation.Results())})
}

// Clear empties the recent results list.
func (h *ValidationHandler) Clear(c *gin.Context) {
	h.validation.ClearResults()
	c.JSON(http.StatusOK, MessageResponse{Message: "results cleared"})
}

// Stats summarizes the recent results.
func (h *ValidationHandler) Stats(c *gin.Context) {
	stats := h.validation.Stats()
	c.JSON(http.StatusOK, gin.H{
		"total":       stats.Total,
		"valid":       stats.Valid,
		"invalid":     stats.Invalid,
		"successRate": stats.SuccessRate,
		"creditsUsed": stats.CreditsUsed,
	})
}

// History fetches one page of past validations from the backend.
func (h *ValidationHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	fetched, err := h.validation.FetchHistory(c.Request.Context(), page, limit)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": toResultViews(fetched.Results),
		"pagination": gin.H{
			"page":  fetched.Page,
			"limit": fetched.Limit,
			"total": fetched.Total,
		},
	})
}

// Export streams the validation history in the requested format.
func (h *ValidationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	data, err := h.validation.Export(c.Request.Context(), format)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "export failed")
		return
	}

	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}
	c.Data(http.StatusOK, contentType, data)
}

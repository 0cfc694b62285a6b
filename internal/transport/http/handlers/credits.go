package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/usecase"
)

// CreditsHandler exposes the mirrored credit state.
type CreditsHandler struct {
	credits *usecase.CreditsService
}

// NewCreditsHandler builds a CreditsHandler.
func NewCreditsHandler(credits *usecase.CreditsService) *CreditsHandler {
	return &CreditsHandler{credits: credits}
}

// RegisterRoutes wires the credit endpoints onto the supplied group.
func (h *CreditsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/credits/balance", h.Balance)
}

// Balance refreshes the mirror from the backend and returns it. When the
// refresh fails the last known mirror is still returned with a warning
// flag, since a stale balance beats no balance for display purposes.
func (h *CreditsHandler) Balance(c *gin.Context) {
	stale := false
	if err := h.credits.FetchBalance(c.Request.Context()); err != nil {
		stale = true
	}

	snapshot := h.credits.Snapshot()

	transactions := make([]TransactionView, 0, len(snapshot.Transactions))
	for _, tx := range snapshot.Transactions {
		transactions = append(transactions, TransactionView{
			ID:                tx.ID,
			Type:              string(tx.Type),
			Amount:            tx.Amount,
			Description:       tx.Description,
			CreatedAt:         tx.CreatedAt.Format(time.RFC3339),
			RelatedValidation: tx.RelatedValidation,
		})
	}

	response := gin.H{
		"balance":      snapshot.Balance,
		"totalUsed":    snapshot.TotalUsed,
		"transactions": transactions,
		"stale":        stale,
	}
	if snapshot.QuotaResetDate != nil {
		response["quotaResetDate"] = snapshot.QuotaResetDate.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

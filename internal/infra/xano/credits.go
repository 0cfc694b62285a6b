package xano

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

type balanceEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		CurrentBalance     int               `json:"current_balance"`
		TotalUsed          int               `json:"total_used"`
		QuotaResetDate     *string           `json:"quota_reset_date"`
		RecentTransactions []json.RawMessage `json:"recent_transactions"`
	} `json:"data"`
}

type transactionRecord struct {
	ID                json.Number     `json:"id"`
	Type              string          `json:"type"`
	Amount            int             `json:"amount"`
	Description       string          `json:"description"`
	CreatedAt         json.RawMessage `json:"created_at"`
	RelatedValidation string          `json:"related_validation"`
}

// Balance fetches the authoritative credit balance and recent transactions.
func (c *Client) Balance(ctx context.Context) (domain.CreditsSnapshot, error) {
	raw, err := c.get(ctx, pathCreditsBalance, nil)
	if err != nil {
		return domain.CreditsSnapshot{}, err
	}

	var envelope balanceEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log.Warn("unexpected balance payload", zap.Error(err))
		return domain.CreditsSnapshot{}, nil
	}

	snapshot := domain.CreditsSnapshot{
		Balance:   envelope.Data.CurrentBalance,
		TotalUsed: envelope.Data.TotalUsed,
	}

	if envelope.Data.QuotaResetDate != nil {
		if ts, err := time.Parse(time.RFC3339, *envelope.Data.QuotaResetDate); err == nil {
			snapshot.QuotaResetDate = &ts
		}
	}

	now := time.Now().UTC()
	for _, rawTx := range envelope.Data.RecentTransactions {
		var record transactionRecord
		if err := json.Unmarshal(rawTx, &record); err != nil {
			continue
		}
		snapshot.Transactions = append(snapshot.Transactions, domain.CreditTransaction{
			ID:                record.ID.String(),
			Type:              domain.CreditTransactionType(record.Type),
			Amount:            record.Amount,
			Description:       record.Description,
			CreatedAt:         parseTimestamp(record.CreatedAt, now),
			RelatedValidation: record.RelatedValidation,
		})
	}

	return snapshot, nil
}

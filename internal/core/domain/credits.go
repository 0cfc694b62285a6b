package domain

import "time"

// CreditTransactionType enumerates ledger entry kinds.
type CreditTransactionType string

const (
	TransactionPurchase CreditTransactionType = "purchase"
	TransactionUsage    CreditTransactionType = "usage"
	TransactionRefund   CreditTransactionType = "refund"
)

// CreditTransaction is one ledger entry mirrored from the backend.
// Entries keep backend order and are never re-sorted locally.
type CreditTransaction struct {
	ID                string
	Type              CreditTransactionType
	Amount            int
	Description       string
	CreatedAt         time.Time
	RelatedValidation string
}

// CreditsSnapshot is the backend's authoritative view of an account's
// credit state at fetch time.
type CreditsSnapshot struct {
	Balance        int
	TotalUsed      int
	QuotaResetDate *time.Time
	Transactions   []CreditTransaction
}

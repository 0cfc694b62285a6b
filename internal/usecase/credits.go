package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/core/port"
)

// CreditsService mirrors the backend's credit balance for fast local
// feedback. The mirror is advisory: optimistic deductions can drift from
// the server until the next fetch, and the balance never goes negative.
type CreditsService struct {
	api  port.CreditsAPI
	log  *zap.Logger
	gate func() bool

	mu           sync.RWMutex
	balance      int
	totalUsed    int
	quotaReset   *time.Time
	transactions []domain.CreditTransaction
}

// NewCreditsService constructs a CreditsService.
func NewCreditsService(api port.CreditsAPI, log *zap.Logger) *CreditsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreditsService{api: api, log: log}
}

// WithGate restricts reconciliation fetches to times when the supplied
// predicate holds, typically "a session exists".
func (c *CreditsService) WithGate(gate func() bool) *CreditsService {
	c.gate = gate
	return c
}

// FetchBalance replaces the mirror with the backend's current snapshot.
// Transactions keep backend order.
func (c *CreditsService) FetchBalance(ctx context.Context) error {
	snapshot, err := c.api.Balance(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.balance = snapshot.Balance
	c.totalUsed = snapshot.TotalUsed
	c.quotaReset = snapshot.QuotaResetDate
	c.transactions = snapshot.Transactions
	c.mu.Unlock()

	c.log.Debug("credit balance refreshed", zap.Int("balance", snapshot.Balance))
	return nil
}

// Balance returns the mirrored balance.
func (c *CreditsService) Balance() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balance
}

// Snapshot returns a copy of the full mirrored credit state.
func (c *CreditsService) Snapshot() domain.CreditsSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	transactions := make([]domain.CreditTransaction, len(c.transactions))
	copy(transactions, c.transactions)

	return domain.CreditsSnapshot{
		Balance:        c.balance,
		TotalUsed:      c.totalUsed,
		QuotaResetDate: c.quotaReset,
		Transactions:   transactions,
	}
}

// Has reports whether the mirrored balance covers the given amount.
func (c *CreditsService) Has(amount int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balance >= amount
}

// Deduct optimistically lowers the mirrored balance, clamped at zero.
func (c *CreditsService) Deduct(amount int) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	c.balance -= amount
	if c.balance < 0 {
		c.balance = 0
	}
	c.mu.Unlock()
}

// SetBalance adopts an authoritative balance reported by the backend.
func (c *CreditsService) SetBalance(balance int) {
	if balance < 0 {
		balance = 0
	}
	c.mu.Lock()
	c.balance = balance
	c.mu.Unlock()
}

// Reconcile periodically re-fetches the balance until the context ends.
// Failures are logged and retried on the next tick.
func (c *CreditsService) Reconcile(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.gate != nil && !c.gate() {
				continue
			}
			if err := c.FetchBalance(ctx); err != nil {
				c.log.Warn("credit reconciliation failed", zap.Error(err))
			}
		}
	}
}

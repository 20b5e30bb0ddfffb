package ledger

import (
	"sync"

	"cardbot/internal/domain"
)

// Ledger is an append-only list of transactions for one checking account.
// Entries are kept in insertion order and are never rewritten.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.Transaction
}

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(txn domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, txn)
}

// Entries returns a copy of the ledger.
func (l *Ledger) Entries() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
	"cardbot/internal/ledger"
	"cardbot/internal/repository/accounts_repo"
	"cardbot/internal/validation"
)

type accountRecord struct {
	kind    domain.AccountKind
	cards   []domain.Card
	balance decimal.Decimal
	ledger  *ledger.Ledger
}

type accountRepository struct {
	mu            sync.RWMutex
	accounts      map[string]*accountRecord
	beneficiaries []domain.Beneficiary
}

func NewAccountRepository(seed accounts_repo.Seed) accounts_repo.AccountRepository {
	repo := &accountRepository{
		accounts:      make(map[string]*accountRecord, len(seed.CardGroups)+len(seed.Checking)),
		beneficiaries: append([]domain.Beneficiary(nil), seed.Beneficiaries...),
	}

	for id, cards := range seed.CardGroups {
		repo.accounts[id] = &accountRecord{
			kind:  domain.AccountKindCreditCardGroup,
			cards: append([]domain.Card(nil), cards...),
		}
	}
	for id, balance := range seed.Checking {
		repo.accounts[id] = &accountRecord{
			kind:    domain.AccountKindChecking,
			balance: balance,
			ledger:  ledger.New(),
		}
	}
	return repo
}

func (r *accountRepository) AccountKind(ctx context.Context, accountID string) (domain.AccountKind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[accountID]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
	}
	return rec.kind, nil
}

func (r *accountRepository) GetCards(ctx context.Context, accountID string) ([]domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, err := r.lookup(accountID, domain.AccountKindCreditCardGroup)
	if err != nil {
		return nil, err
	}
	cards := make([]domain.Card, len(rec.cards))
	copy(cards, rec.cards)
	return cards, nil
}

func (r *accountRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, err := r.lookup(accountID, domain.AccountKindChecking)
	if err != nil {
		return decimal.Zero, err
	}
	return rec.balance, nil
}

func (r *accountRepository) GetTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, err := r.lookup(accountID, domain.AccountKindChecking)
	if err != nil {
		return nil, err
	}
	return rec.ledger.Entries(), nil
}

func (r *accountRepository) ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Beneficiary, len(r.beneficiaries))
	copy(out, r.beneficiaries)
	return out, nil
}

func (r *accountRepository) ApplyDebit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(accountID, domain.AccountKindChecking)
	if err != nil {
		return decimal.Zero, err
	}
	after, err := debit(rec.balance, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit %s: %w", accountID, err)
	}
	rec.balance = after
	return after, nil
}

func (r *accountRepository) AppendTransaction(ctx context.Context, accountID string, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(accountID, domain.AccountKindChecking)
	if err != nil {
		return err
	}
	rec.ledger.Append(txn)
	return nil
}

func (r *accountRepository) CommitPayment(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.Transaction) (decimal.Decimal, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(accountID, domain.AccountKindChecking)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	before := rec.balance
	after, err := debit(before, amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("commit payment on %s: %w", accountID, err)
	}

	rec.ledger.Append(txn)
	rec.balance = after
	return before, after, nil
}

// lookup must be called with r.mu held.
func (r *accountRepository) lookup(accountID string, kind domain.AccountKind) (*accountRecord, error) {
	rec, ok := r.accounts[accountID]
	if !ok || rec.kind != kind {
		return nil, fmt.Errorf("%w: no %s account %q", domain.ErrAccountNotFound, kind, accountID)
	}
	return rec, nil
}

// debit enforces the payment funds rule: the debit may not empty or overdraw
// the balance.
func debit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: debit amount must be positive", domain.ErrValidationFailed)
	}
	if f := validation.SufficientBalance(amount, balance); f != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrInsufficientFunds, f)
	}
	return balance.Sub(amount), nil
}

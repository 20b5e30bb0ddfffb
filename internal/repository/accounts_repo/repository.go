package accounts_repo

import (
	"context"

	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
)

type AccountRepository interface {
	AccountKind(ctx context.Context, accountID string) (domain.AccountKind, error)
	GetCards(ctx context.Context, accountID string) ([]domain.Card, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error)
	ApplyDebit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
	AppendTransaction(ctx context.Context, accountID string, txn domain.Transaction) error
	// CommitPayment debits the account and appends txn to its ledger as one step.
	// It returns the balance before and after the debit. On error nothing is written.
	CommitPayment(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.Transaction) (decimal.Decimal, decimal.Decimal, error)
}

package validation

import (
	"time"

	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
)

const (
	DefaultCardPaymentLimit = 5000
	DefaultHorizonDays      = 30
)

// Policy holds the tunables of the payment rules.
type Policy struct {
	CardPaymentLimit decimal.Decimal
	HorizonDays      int
	Now              func() time.Time
}

func DefaultPolicy() Policy {
	return Policy{
		CardPaymentLimit: decimal.NewFromInt(DefaultCardPaymentLimit),
		HorizonDays:      DefaultHorizonDays,
		Now:              time.Now,
	}
}

type CardPaymentInput struct {
	Payment    domain.CardPayment
	OwnedCards []domain.Card
}

// BeneficiaryPaymentInput carries the source balance when the source account
// exists. SourceBalance is nil when it does not.
type BeneficiaryPaymentInput struct {
	Payment       domain.BeneficiaryPayment
	Directory     []domain.Beneficiary
	SourceBalance *decimal.Decimal
}

// ValidateCardPayment runs identity, amount and date checks in that order.
func (p Policy) ValidateCardPayment(in CardPaymentInput) *Failure {
	now := p.now()
	return Run(in,
		func(in CardPaymentInput) *Failure { return CardOwnership(in.Payment.CardID, in.OwnedCards) },
		func(in CardPaymentInput) *Failure { return PositiveAmount(in.Payment.Amount) },
		func(in CardPaymentInput) *Failure { return BelowLimit(in.Payment.Amount, p.CardPaymentLimit) },
		func(in CardPaymentInput) *Failure { return DueDate(in.Payment.DueDate, now, p.HorizonDays) },
	)
}

// ValidateBeneficiaryPayment runs identity, amount and source account checks in that order.
func (p Policy) ValidateBeneficiaryPayment(in BeneficiaryPaymentInput) *Failure {
	return Run(in,
		func(in BeneficiaryPaymentInput) *Failure {
			return BeneficiaryRegistered(in.Payment.Beneficiary, in.Directory)
		},
		func(in BeneficiaryPaymentInput) *Failure { return PositiveAmount(in.Payment.Amount) },
		func(in BeneficiaryPaymentInput) *Failure {
			if in.SourceBalance == nil {
				return nil
			}
			return SufficientBalance(in.Payment.Amount, *in.SourceBalance)
		},
		func(in BeneficiaryPaymentInput) *Failure {
			if in.SourceBalance == nil {
				return fail(CheckAccount, ReasonSourceAccountNotFound, domain.ErrAccountNotFound,
					"account %q not found", in.Payment.AccountID)
			}
			return nil
		},
	)
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

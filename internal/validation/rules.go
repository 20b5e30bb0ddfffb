package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
)

func CardOwnership(cardID string, owned []domain.Card) *Failure {
	for _, c := range owned {
		if c.ID == cardID {
			return nil
		}
	}
	return fail(CheckIdentity, ReasonCardNotOwned, domain.ErrCardNotFound, "card does not belong to user")
}

func PositiveAmount(amount decimal.Decimal) *Failure {
	if !amount.IsPositive() {
		return invalid(CheckAmount, ReasonNonPositiveAmount, "amount must be greater than zero")
	}
	return nil
}

// BelowLimit rejects amounts equal to or above the ceiling.
func BelowLimit(amount, limit decimal.Decimal) *Failure {
	if amount.GreaterThanOrEqual(limit) {
		return invalid(CheckAmount, ReasonLimitExceeded, "amount exceeds the per-transaction limit of %s", limit.String())
	}
	return nil
}

// DueDate parses raw as day-month-year in now's location and requires it to
// fall after now and no later than horizonDays from now.
func DueDate(raw string, now time.Time, horizonDays int) *Failure {
	date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return invalid(CheckDate, ReasonDateUnparsable, "date %q is not in DD-MM-YYYY format", raw)
	}
	if !date.After(now) {
		return invalid(CheckDate, ReasonDateNotInFuture, "date %s must be in the future", raw)
	}
	if date.After(now.AddDate(0, 0, horizonDays)) {
		return invalid(CheckDate, ReasonDateBeyondHorizon, "date %s is more than %d days ahead", raw, horizonDays)
	}
	return nil
}

func BeneficiaryRegistered(name string, directory []domain.Beneficiary) *Failure {
	wanted := strings.TrimSpace(name)
	for _, b := range directory {
		if strings.EqualFold(strings.TrimSpace(b.Name), wanted) {
			return nil
		}
	}
	return fail(CheckIdentity, ReasonBeneficiaryUnknown, domain.ErrBeneficiaryNotFound, "beneficiary %q is not registered", name)
}

// SufficientBalance rejects payments that would overdraw or empty the account.
func SufficientBalance(amount, balance decimal.Decimal) *Failure {
	switch {
	case amount.GreaterThan(balance):
		return invalid(CheckAmount, ReasonInsufficientBalance, "insufficient balance")
	case amount.Equal(balance):
		return invalid(CheckAmount, ReasonInsufficientFunds, "insufficient funds: the payment would empty the account")
	}
	return nil
}

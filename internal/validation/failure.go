package validation

import (
	"fmt"

	"cardbot/internal/domain"
)

// Check names the stage of the pipeline that rejected a payment.
type Check string

const (
	CheckIdentity Check = "identity"
	CheckAmount   Check = "amount"
	CheckDate     Check = "date"
	CheckAccount  Check = "account"
)

type Reason string

const (
	ReasonCardNotOwned          Reason = "card_not_owned"
	ReasonBeneficiaryUnknown    Reason = "beneficiary_unknown"
	ReasonNonPositiveAmount     Reason = "non_positive_amount"
	ReasonLimitExceeded         Reason = "limit_exceeded"
	ReasonInsufficientBalance   Reason = "insufficient_balance"
	ReasonInsufficientFunds     Reason = "insufficient_funds"
	ReasonDateUnparsable        Reason = "date_unparsable"
	ReasonDateNotInFuture       Reason = "date_not_in_future"
	ReasonDateBeyondHorizon     Reason = "date_beyond_horizon"
	ReasonSourceAccountNotFound Reason = "source_account_not_found"
)

// Failure is the result of a rejected rule. It unwraps to the domain error
// class of the rejection so callers can use errors.Is.
type Failure struct {
	Check   Check
	Reason  Reason
	Message string
	cause   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s check failed: %s", f.Check, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.cause
}

func fail(check Check, reason Reason, cause error, format string, args ...any) *Failure {
	return &Failure{
		Check:   check,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func invalid(check Check, reason Reason, format string, args ...any) *Failure {
	return fail(check, reason, domain.ErrValidationFailed, format, args...)
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrTransientFailure = errors.New("transient failure")
)

var (
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrCardNotFound        = fmt.Errorf("card %w", ErrNotFound)
	ErrBeneficiaryNotFound = fmt.Errorf("beneficiary %w", ErrNotFound)
	ErrInsufficientFunds   = errors.New("insufficient funds")
)

type AccountKind string

const (
	AccountKindChecking        AccountKind = "checking"
	AccountKindCreditCardGroup AccountKind = "credit-card-group"
)

func (k AccountKind) String() string {
	return string(k)
}

// Card is a credit card linked to exactly one credit-card-group account.
type Card struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	LastFour string          `json:"last4"`
	Balance  decimal.Decimal `json:"balance"`
}

type Beneficiary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

package tools

import (
	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
)

type CardList struct {
	Message   string        `json:"message"`
	AccountID string        `json:"account_id"`
	Cards     []domain.Card `json:"cards"`
}

type TransactionList struct {
	Message      string               `json:"message"`
	AccountID    string               `json:"account_id"`
	Transactions []domain.Transaction `json:"transactions"`
}

type Balance struct {
	Message   string          `json:"message"`
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type CardPaymentResult struct {
	Message string `json:"message"`
	domain.CardPaymentReceipt
}

type BeneficiaryPaymentResult struct {
	Message string `json:"message"`
	domain.BeneficiaryPaymentReceipt
}

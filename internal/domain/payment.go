package domain

import "github.com/shopspring/decimal"

// CardPayment asks to pay a credit card's outstanding balance from a funding source.
type CardPayment struct {
	CardID  string          `json:"card_id"`
	Amount  decimal.Decimal `json:"amount"`
	Source  string          `json:"source"`
	DueDate string          `json:"date"`
}

type CardPaymentReceipt struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	CardID        string          `json:"card_id"`
	Amount        decimal.Decimal `json:"amount"`
	Source        string          `json:"source"`
	DueDate       string          `json:"due_date"`
}

// BeneficiaryPayment moves money from a checking account to a registered beneficiary.
// An empty AccountID means the session's selected checking account.
type BeneficiaryPayment struct {
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   string          `json:"account_id,omitempty"`
}

type BeneficiaryPaymentReceipt struct {
	AccountID      string          `json:"account_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
	Transaction    Transaction     `json:"transaction"`
}

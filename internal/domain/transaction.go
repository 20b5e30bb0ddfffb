package domain

import "github.com/shopspring/decimal"

// DateLayout is the day-month-year layout used for due dates and ledger entries.
const DateLayout = "02-01-2006"

type Transaction struct {
	Beneficiary   string          `json:"beneficiary"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
}

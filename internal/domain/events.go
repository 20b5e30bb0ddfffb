package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeCardPaymentScheduled   = "CardPaymentScheduled"
	EventTypeBeneficiaryPaymentMade = "BeneficiaryPaymentMade"
	AggregateTypeCheckingAccount    = "CheckingAccount"
	AggregateTypeCreditCardGroup    = "CreditCardGroup"
)

// PaymentRecordedEvent is published after a payment tool call succeeds.
type PaymentRecordedEvent struct {
	EventType     string           `json:"event_type"`
	SessionID     string           `json:"session_id"`
	CorrelationID string           `json:"correlation_id,omitempty"`
	AccountID     string           `json:"account_id"`
	TransactionID string           `json:"transaction_id"`
	Counterparty  string           `json:"counterparty"`
	Amount        decimal.Decimal  `json:"amount"`
	BalanceAfter  *decimal.Decimal `json:"balance_after,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cardbot/internal/domain"
	"cardbot/internal/repository/accounts_repo"
	"cardbot/internal/session"
	"cardbot/internal/validation"
)

const transientMessage = "Something went wrong on our side, please try again in a moment."

type EventRecorder interface {
	RecordPayment(ctx context.Context, aggregateType string, event domain.PaymentRecordedEvent) error
}

type IDIssuer interface {
	Issue() string
}

type Config struct {
	DefaultCardAccount     string
	DefaultCheckingAccount string
	Policy                 validation.Policy
}

// Service implements the banking tools. No method returns an error or panics:
// every failure is reported through the Error branch of the Result.
type Service struct {
	accounts accounts_repo.AccountRepository
	events   EventRecorder
	ids      IDIssuer
	cfg      Config
	logger   *zap.Logger
}

func NewService(
	accounts accounts_repo.AccountRepository,
	events EventRecorder,
	ids IDIssuer,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		events:   events,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *Service) ListCards(ctx context.Context, sess *session.Session, accountID string) (res Result[CardList]) {
	defer recoverInto(s.logger, ToolListCards, &res)

	id := s.resolve(sess, domain.AccountKindCreditCardGroup, accountID)
	cards, err := s.accounts.GetCards(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to list cards", zap.String("account_id", id), zap.Error(err))
		return failure[CardList](userMessage(err, id))
	}
	sess.Select(domain.AccountKindCreditCardGroup, id)

	return success(CardList{
		Message:   fmt.Sprintf("Here is the list of cards for account %s", id),
		AccountID: id,
		Cards:     cards,
	})
}

func (s *Service) ListTransactions(ctx context.Context, sess *session.Session, accountID string) (res Result[TransactionList]) {
	defer recoverInto(s.logger, ToolListTransactions, &res)

	id := s.resolve(sess, domain.AccountKindChecking, accountID)
	txns, err := s.accounts.GetTransactions(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to list transactions", zap.String("account_id", id), zap.Error(err))
		return failure[TransactionList](userMessage(err, id))
	}
	sess.Select(domain.AccountKindChecking, id)

	msg := fmt.Sprintf("Here are the transactions for account %s", id)
	if len(txns) == 0 {
		msg = fmt.Sprintf("There are no transactions on account %s yet", id)
	}
	return success(TransactionList{
		Message:      msg,
		AccountID:    id,
		Transactions: txns,
	})
}

func (s *Service) GetBalance(ctx context.Context, sess *session.Session, accountID string) (res Result[Balance]) {
	defer recoverInto(s.logger, ToolGetBalance, &res)

	id := s.resolve(sess, domain.AccountKindChecking, accountID)
	balance, err := s.accounts.GetBalance(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to get balance", zap.String("account_id", id), zap.Error(err))
		return failure[Balance](userMessage(err, id))
	}
	sess.Select(domain.AccountKindChecking, id)

	return success(Balance{
		Message:   fmt.Sprintf("The balance of account %s is %s", id, balance.StringFixed(2)),
		AccountID: id,
		Balance:   balance,
	})
}

// PayCard validates a card payment against the session's credit card account
// and returns a receipt. Card balances are not changed.
func (s *Service) PayCard(ctx context.Context, sess *session.Session, req domain.CardPayment) (res Result[CardPaymentResult]) {
	defer recoverInto(s.logger, ToolPayCard, &res)

	accountID := s.resolve(sess, domain.AccountKindCreditCardGroup, "")
	cards, err := s.accounts.GetCards(ctx, accountID)
	if err != nil {
		s.logger.Warn("Card payment rejected: account lookup failed", zap.String("account_id", accountID), zap.Error(err))
		return failure[CardPaymentResult](userMessage(err, accountID))
	}
	sess.Select(domain.AccountKindCreditCardGroup, accountID)

	if f := s.cfg.Policy.ValidateCardPayment(validation.CardPaymentInput{Payment: req, OwnedCards: cards}); f != nil {
		s.logger.Info("Card payment rejected",
			zap.String("account_id", accountID),
			zap.String("card_id", req.CardID),
			zap.String("check", string(f.Check)),
			zap.String("reason", string(f.Reason)))
		return failure[CardPaymentResult](f.Message)
	}

	receipt := domain.CardPaymentReceipt{
		TransactionID: s.ids.Issue(),
		AccountID:     accountID,
		CardID:        req.CardID,
		Amount:        req.Amount,
		Source:        req.Source,
		DueDate:       req.DueDate,
	}
	s.logger.Info("Card payment scheduled",
		zap.String("account_id", accountID),
		zap.String("card_id", req.CardID),
		zap.String("transaction_id", receipt.TransactionID),
		zap.String("amount", req.Amount.String()))

	s.record(ctx, sess, domain.AggregateTypeCreditCardGroup, domain.PaymentRecordedEvent{
		EventType:     domain.EventTypeCardPaymentScheduled,
		AccountID:     accountID,
		TransactionID: receipt.TransactionID,
		Counterparty:  req.CardID,
		Amount:        req.Amount,
	})

	return success(CardPaymentResult{
		Message: fmt.Sprintf("Payment of %s to card %s from %s is scheduled for %s. Transaction id %s",
			req.Amount.StringFixed(2), req.CardID, req.Source, req.DueDate, receipt.TransactionID),
		CardPaymentReceipt: receipt,
	})
}

// PayBeneficiary debits a checking account and records the transfer in its ledger.
func (s *Service) PayBeneficiary(ctx context.Context, sess *session.Session, req domain.BeneficiaryPayment) (res Result[BeneficiaryPaymentResult]) {
	defer recoverInto(s.logger, ToolPayBeneficiary, &res)

	accountID := s.resolve(sess, domain.AccountKindChecking, req.AccountID)
	req.AccountID = accountID

	directory, err := s.accounts.ListBeneficiaries(ctx)
	if err != nil {
		s.logger.Error("Failed to load beneficiaries", zap.Error(err))
		return failure[BeneficiaryPaymentResult](userMessage(err, accountID))
	}

	var sourceBalance *decimal.Decimal
	balance, err := s.accounts.GetBalance(ctx, accountID)
	switch {
	case err == nil:
		sourceBalance = &balance
		sess.Select(domain.AccountKindChecking, accountID)
	case !errors.Is(err, domain.ErrNotFound):
		s.logger.Error("Failed to read source balance", zap.String("account_id", accountID), zap.Error(err))
		return failure[BeneficiaryPaymentResult](userMessage(err, accountID))
	}

	f := s.cfg.Policy.ValidateBeneficiaryPayment(validation.BeneficiaryPaymentInput{
		Payment:       req,
		Directory:     directory,
		SourceBalance: sourceBalance,
	})
	if f != nil {
		s.logger.Info("Beneficiary payment rejected",
			zap.String("account_id", accountID),
			zap.String("check", string(f.Check)),
			zap.String("reason", string(f.Reason)))
		return failure[BeneficiaryPaymentResult](f.Message)
	}

	txn := domain.Transaction{
		Beneficiary:   canonicalName(req.Beneficiary, directory),
		Amount:        req.Amount,
		TransactionID: s.ids.Issue(),
		Date:          s.now().Format(domain.DateLayout),
	}
	before, after, err := s.accounts.CommitPayment(ctx, accountID, req.Amount, txn)
	if err != nil {
		s.logger.Warn("Beneficiary payment failed at commit", zap.String("account_id", accountID), zap.Error(err))
		return failure[BeneficiaryPaymentResult](userMessage(err, accountID))
	}
	s.logger.Info("Beneficiary payment made",
		zap.String("account_id", accountID),
		zap.String("transaction_id", txn.TransactionID),
		zap.String("amount", req.Amount.String()),
		zap.String("balance_after", after.String()))

	s.record(ctx, sess, domain.AggregateTypeCheckingAccount, domain.PaymentRecordedEvent{
		EventType:     domain.EventTypeBeneficiaryPaymentMade,
		AccountID:     accountID,
		TransactionID: txn.TransactionID,
		Counterparty:  txn.Beneficiary,
		Amount:        req.Amount,
		BalanceAfter:  &after,
	})

	return success(BeneficiaryPaymentResult{
		Message: fmt.Sprintf("Transferred %s to %s. The balance of account %s went from %s to %s",
			req.Amount.StringFixed(2), txn.Beneficiary, accountID, before.StringFixed(2), after.StringFixed(2)),
		BeneficiaryPaymentReceipt: domain.BeneficiaryPaymentReceipt{
			AccountID:      accountID,
			InitialBalance: before,
			FinalBalance:   after,
			Transaction:    txn,
		},
	})
}

// resolve picks the explicit id, then the session's selection, then the configured default.
func (s *Service) resolve(sess *session.Session, kind domain.AccountKind, accountID string) string {
	if id := strings.TrimSpace(accountID); id != "" {
		return id
	}
	if id, ok := sess.Selected(kind); ok {
		return id
	}
	if kind == domain.AccountKindCreditCardGroup {
		return s.cfg.DefaultCardAccount
	}
	return s.cfg.DefaultCheckingAccount
}

func (s *Service) record(ctx context.Context, sess *session.Session, aggregateType string, event domain.PaymentRecordedEvent) {
	if s.events == nil {
		return
	}
	event.SessionID = sess.ID
	event.CorrelationID = session.CorrelationID(ctx)
	event.Timestamp = s.now()
	if err := s.events.RecordPayment(ctx, aggregateType, event); err != nil {
		s.logger.Error("Failed to record payment event",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err))
	}
}

func (s *Service) now() time.Time {
	if s.cfg.Policy.Now == nil {
		return time.Now()
	}
	return s.cfg.Policy.Now()
}

func canonicalName(name string, directory []domain.Beneficiary) string {
	wanted := strings.TrimSpace(name)
	for _, b := range directory {
		if strings.EqualFold(b.Name, wanted) {
			return b.Name
		}
	}
	return wanted
}

func userMessage(err error, accountID string) string {
	var f *validation.Failure
	switch {
	case errors.As(err, &f):
		return f.Message
	case errors.Is(err, domain.ErrAccountNotFound):
		return fmt.Sprintf("provided account id %s not found", accountID)
	case errors.Is(err, domain.ErrNotFound):
		return err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient balance"
	case errors.Is(err, domain.ErrValidationFailed):
		return err.Error()
	}
	return transientMessage
}

func recoverInto[T any](logger *zap.Logger, tool string, res *Result[T]) {
	if r := recover(); r != nil {
		logger.Error("Recovered panic in tool call",
			zap.String("tool", tool),
			zap.Any("panic", r),
			zap.NamedError("class", domain.ErrTransientFailure))
		*res = failure[T](transientMessage)
	}
}

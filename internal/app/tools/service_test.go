package tools

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardbot/internal/domain"
	"cardbot/internal/repository/accounts_repo"
	"cardbot/internal/repository/accounts_repo/memory"
	"cardbot/internal/session"
	"cardbot/internal/util"
	"cardbot/internal/validation"
)

var fixedNow = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

type recordedEvent struct {
	aggregateType string
	event         domain.PaymentRecordedEvent
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeRecorder) RecordPayment(ctx context.Context, aggregateType string, event domain.PaymentRecordedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{aggregateType: aggregateType, event: event})
	return nil
}

type fixture struct {
	svc      *Service
	repo     accounts_repo.AccountRepository
	recorder *fakeRecorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	policy := validation.DefaultPolicy()
	policy.Now = func() time.Time { return fixedNow }

	repo := memory.NewAccountRepository(accounts_repo.DefaultSeed())
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder, util.NewTokenIssuer(), Config{
		DefaultCardAccount:     "CC_ACC234",
		DefaultCheckingAccount: "CHECKING_ACC234",
		Policy:                 policy,
	}, zap.NewNop())
	return fixture{svc: svc, repo: repo, recorder: recorder}
}

func daysAhead(n int) string {
	return fixedNow.AddDate(0, 0, n).Format(domain.DateLayout)
}

func cardPayment(cardID string, amount int64, date string) domain.CardPayment {
	return domain.CardPayment{CardID: cardID, Amount: decimal.NewFromInt(amount), Source: "checking", DueDate: date}
}

func TestListCards_DefaultAccount(t *testing.T) {
	f := newFixture(t)
	sess := session.New("s1")

	res := f.svc.ListCards(context.Background(), sess, "")
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "CC_ACC234", res.Success.AccountID)
	require.Len(t, res.Success.Cards, 2)
	assert.Equal(t, "Visa", res.Success.Cards[0].Type)
	assert.Equal(t, "Amex", res.Success.Cards[1].Type)

	selected, ok := sess.Selected(domain.AccountKindCreditCardGroup)
	require.True(t, ok)
	assert.Equal(t, "CC_ACC234", selected)
}

func TestListCards_UnknownAccountLeavesSessionUnchanged(t *testing.T) {
	f := newFixture(t)
	sess := session.New("s1")
	sess.Select(domain.AccountKindCreditCardGroup, "CC_ACC123")

	res := f.svc.ListCards(context.Background(), sess, "CC_NOPE")
	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "not found")

	selected, _ := sess.Selected(domain.AccountKindCreditCardGroup)
	assert.Equal(t, "CC_ACC123", selected)

	res = f.svc.ListCards(context.Background(), sess, "CHECKING_ACC234")
	assert.False(t, res.OK())
}

func TestSelectionCarriesAcrossCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := session.New("s1")

	require.True(t, f.svc.ListCards(ctx, sess, "CC_ACC123").OK())

	res := f.svc.PayCard(ctx, sess, cardPayment("3", 100, daysAhead(5)))
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "CC_ACC123", res.Success.AccountID)

	res = f.svc.PayCard(ctx, sess, cardPayment("1", 100, daysAhead(5)))
	assert.Equal(t, "card does not belong to user", res.Error)

	other := session.New("s2")
	res = f.svc.PayCard(ctx, other, cardPayment("1", 100, daysAhead(5)))
	assert.True(t, res.OK(), res.Error)
}

func TestPayCard_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := session.New("s1")

	res := f.svc.PayCard(ctx, sess, cardPayment("2", 100, daysAhead(29)))
	require.True(t, res.OK(), res.Error)
	assert.Len(t, res.Success.TransactionID, 10)
	assert.Equal(t, "2", res.Success.CardID)

	res = f.svc.PayCard(ctx, sess, cardPayment("9", 100, daysAhead(29)))
	assert.Equal(t, "card does not belong to user", res.Error)

	res = f.svc.PayCard(ctx, sess, cardPayment("2", 6000, daysAhead(29)))
	assert.Contains(t, res.Error, "transaction limit")

	res = f.svc.PayCard(ctx, sess, cardPayment("2", 100, daysAhead(31)))
	assert.False(t, res.OK())

	cards, err := f.repo.GetCards(ctx, "CC_ACC234")
	require.NoError(t, err)
	assert.True(t, cards[1].Balance.Equal(decimal.NewFromInt(3500)))

	require.Len(t, f.recorder.events, 1)
	assert.Equal(t, domain.EventTypeCardPaymentScheduled, f.recorder.events[0].event.EventType)
	assert.Equal(t, "s1", f.recorder.events[0].event.SessionID)
}

func TestPayBeneficiary_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := session.WithCorrelationID(context.Background(), "corr-1")
	sess := session.New("s1")

	balance := f.svc.GetBalance(ctx, sess, "")
	require.True(t, balance.OK())
	assert.True(t, balance.Success.Balance.Equal(decimal.NewFromInt(3000)))

	res := f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "yam marcovitz", Amount: decimal.NewFromInt(500)})
	require.True(t, res.OK(), res.Error)
	assert.True(t, res.Success.InitialBalance.Equal(decimal.NewFromInt(3000)))
	assert.True(t, res.Success.FinalBalance.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "Yam Marcovitz", res.Success.Transaction.Beneficiary)
	assert.Equal(t, "10-03-2025", res.Success.Transaction.Date)

	txns := f.svc.ListTransactions(ctx, sess, "")
	require.True(t, txns.OK())
	require.Len(t, txns.Success.Transactions, 1)
	assert.True(t, txns.Success.Transactions[0].Amount.Equal(decimal.NewFromInt(500)))

	res = f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "yam marcovitz", Amount: decimal.NewFromInt(3000)})
	assert.Equal(t, "insufficient balance", res.Error)

	after, err := f.repo.GetBalance(ctx, "CHECKING_ACC234")
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(2500)))

	require.Len(t, f.recorder.events, 1)
	event := f.recorder.events[0]
	assert.Equal(t, domain.AggregateTypeCheckingAccount, event.aggregateType)
	assert.Equal(t, "corr-1", event.event.CorrelationID)
	require.NotNil(t, event.event.BalanceAfter)
	assert.True(t, event.event.BalanceAfter.Equal(decimal.NewFromInt(2500)))
}

func TestPayBeneficiary_FailuresDoNotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := session.New("s1")

	res := f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{
		Beneficiary: "Yam Marcovitz", Amount: decimal.NewFromInt(10), AccountID: "CHECKING_NOPE",
	})
	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "not found")
	_, selected := sess.Selected(domain.AccountKindChecking)
	assert.False(t, selected)

	res = f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "Stranger", Amount: decimal.NewFromInt(10)})
	assert.Contains(t, res.Error, "not registered")

	res = f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "Yam Marcovitz", Amount: decimal.NewFromInt(3000)})
	assert.Contains(t, res.Error, "insufficient funds")

	for _, id := range []string{"CHECKING_ACC234", "CHECKING_ACC123"} {
		txns, err := f.repo.GetTransactions(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, txns)
	}
	balance, _ := f.repo.GetBalance(ctx, "CHECKING_ACC234")
	assert.True(t, balance.Equal(decimal.NewFromInt(3000)))
	assert.Empty(t, f.recorder.events)
}

func TestPayments_NonPositiveAmountsDoNotMutate(t *testing.T) {
	for _, amount := range []int64{0, -10} {
		f := newFixture(t)
		ctx := context.Background()
		sess := session.New("s1")

		card := f.svc.PayCard(ctx, sess, cardPayment("1", amount, daysAhead(5)))
		assert.Equal(t, "amount must be greater than zero", card.Error, "card amount %d", amount)
		assert.Nil(t, card.Success)

		transfer := f.svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "Yam Marcovitz", Amount: decimal.NewFromInt(amount)})
		assert.Equal(t, "amount must be greater than zero", transfer.Error, "transfer amount %d", amount)
		assert.Nil(t, transfer.Success)

		cards, err := f.repo.GetCards(ctx, "CC_ACC234")
		require.NoError(t, err)
		assert.True(t, cards[0].Balance.Equal(decimal.NewFromInt(2500)))
		balance, err := f.repo.GetBalance(ctx, "CHECKING_ACC234")
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(3000)))
		txns, err := f.repo.GetTransactions(ctx, "CHECKING_ACC234")
		require.NoError(t, err)
		assert.Empty(t, txns)
		assert.Empty(t, f.recorder.events)
	}
}

// barrierRepo holds every balance read until all expected readers have one,
// so concurrent payments validate against the same stale balance.
type barrierRepo struct {
	accounts_repo.AccountRepository
	readers *sync.WaitGroup
}

func (r barrierRepo) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := r.AccountRepository.GetBalance(ctx, accountID)
	r.readers.Done()
	r.readers.Wait()
	return balance, err
}

func TestPayBeneficiary_ConcurrentPaymentsCannotEmptyAccount(t *testing.T) {
	f := newFixture(t)
	readers := &sync.WaitGroup{}
	readers.Add(2)
	svc := NewService(barrierRepo{AccountRepository: f.repo, readers: readers}, f.recorder, util.NewTokenIssuer(), f.svc.cfg, zap.NewNop())
	ctx := context.Background()

	results := make([]Result[BeneficiaryPaymentResult], 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := session.New(fmt.Sprintf("s%d", i))
			results[i] = svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{Beneficiary: "Yam Marcovitz", Amount: decimal.NewFromInt(1500)})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, res := range results {
		if res.OK() {
			succeeded++
			continue
		}
		assert.Equal(t, "insufficient funds: the payment would empty the account", res.Error)
	}
	assert.Equal(t, 1, succeeded)

	balance, err := f.repo.GetBalance(ctx, "CHECKING_ACC234")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1500)))
	txns, err := f.repo.GetTransactions(ctx, "CHECKING_ACC234")
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Len(t, f.recorder.events, 1)
}

func TestPayCard_TransactionIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := session.New("s1")
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		res := f.svc.PayCard(ctx, sess, cardPayment("1", 10, daysAhead(3)))
		require.True(t, res.OK(), res.Error)
		_, dup := seen[res.Success.TransactionID]
		require.False(t, dup)
		seen[res.Success.TransactionID] = struct{}{}
	}
}

type panickingRepo struct {
	accounts_repo.AccountRepository
}

func TestToolsNeverPanic(t *testing.T) {
	svc := NewService(panickingRepo{}, nil, util.NewTokenIssuer(), Config{
		DefaultCardAccount:     "CC_ACC234",
		DefaultCheckingAccount: "CHECKING_ACC234",
		Policy:                 validation.DefaultPolicy(),
	}, zap.NewNop())
	ctx := context.Background()
	sess := session.New("s1")

	assert.NotPanics(t, func() {
		res := svc.ListCards(ctx, sess, "")
		assert.Equal(t, transientMessage, res.Error)
		assert.Nil(t, res.Success)

		assert.Equal(t, transientMessage, svc.GetBalance(ctx, sess, "").Error)
		assert.Equal(t, transientMessage, svc.ListTransactions(ctx, sess, "").Error)
		assert.Equal(t, transientMessage, svc.PayCard(ctx, sess, cardPayment("1", 1, daysAhead(1))).Error)
		assert.Equal(t, transientMessage, svc.PayBeneficiary(ctx, sess, domain.BeneficiaryPayment{}).Error)
	})
}

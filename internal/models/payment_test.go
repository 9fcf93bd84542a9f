package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	txHashPattern   = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
	contractPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
)

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentPending, PaymentApproved, true},
		{PaymentPending, PaymentRejected, true},
		{PaymentPending, PaymentPaid, false},
		{PaymentApproved, PaymentPaid, true},
		{PaymentApproved, PaymentRejected, false},
		{PaymentRejected, PaymentApproved, false},
		{PaymentPaid, PaymentPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentCreateValidation(t *testing.T) {
	worker := createTestUser(t, RoleWorker)

	_, err := testDB.Payments.Create(worker.ID, 0, "nothing", time.Now())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = testDB.Payments.Create(worker.ID, -50, "negative", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentApprove(t *testing.T) {
	manager, worker := createTestTeam(t)

	wallet, err := testDB.Wallets.Add(worker.ID, "0x1111111111111111111111111111111111111111", WalletEthereum)
	require.NoError(t, err)

	payment, err := testDB.Payments.Create(worker.ID, 120000, "Block laying", time.Now())
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, payment.Status)

	approved, err := testDB.Payments.Approve(payment.ID, manager.ID)
	require.NoError(t, err)

	assert.Equal(t, PaymentApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, manager.ID, *approved.ApproverID)
	require.NotNil(t, approved.TxHash)
	assert.Regexp(t, txHashPattern, *approved.TxHash)
	require.NotNil(t, approved.ContractAddress)
	assert.Regexp(t, contractPattern, *approved.ContractAddress)
	require.NotNil(t, approved.TxStatus)
	assert.Equal(t, TxProcessing, *approved.TxStatus)
	require.NotNil(t, approved.RecipientWallet)
	assert.Equal(t, wallet.Address, *approved.RecipientWallet)
}

func TestPaymentApproveWithoutWallet(t *testing.T) {
	manager, worker := createTestTeam(t)

	payment, err := testDB.Payments.Create(worker.ID, 5000, "No wallet yet", time.Now())
	require.NoError(t, err)

	approved, err := testDB.Payments.Approve(payment.ID, manager.ID)
	require.NoError(t, err)
	assert.Nil(t, approved.RecipientWallet)
}

func TestPaymentApproveNonPending(t *testing.T) {
	manager, worker := createTestTeam(t)

	payment, err := testDB.Payments.Create(worker.ID, 8000, "Twice", time.Now())
	require.NoError(t, err)

	first, err := testDB.Payments.Approve(payment.ID, manager.ID)
	require.NoError(t, err)

	_, err = testDB.Payments.Approve(payment.ID, manager.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// The losing attempt left the record untouched.
	stored, err := testDB.Payments.Get(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.TxHash, *stored.TxHash)
	assert.Equal(t, PaymentApproved, stored.Status)
}

func TestPaymentRejectTerminal(t *testing.T) {
	manager, worker := createTestTeam(t)

	payment, err := testDB.Payments.Create(worker.ID, 3000, "Disputed hours", time.Now())
	require.NoError(t, err)

	rejected, err := testDB.Payments.Reject(payment.ID, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentRejected, rejected.Status)
	assert.Nil(t, rejected.TxHash)

	_, err = testDB.Payments.Approve(payment.ID, manager.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = testDB.Payments.Settle(payment.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := testDB.Payments.Get(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentRejected, stored.Status)
}

// Settlement runs against a handle whose timer fires quickly; the
// shared test handle keeps a delay long enough to never fire.
func TestPaymentSettlement(t *testing.T) {
	settleDB, err := NewDB(testDSN, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer settleDB.Close()

	manager, worker := createTestTeam(t)

	payment, err := settleDB.Payments.Create(worker.ID, 64000, "Roofing", time.Now())
	require.NoError(t, err)

	_, err = settleDB.Payments.Approve(payment.ID, manager.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stored, err := settleDB.Payments.Get(payment.ID)
		return err == nil && stored.Status == PaymentPaid
	}, 5*time.Second, 25*time.Millisecond)

	stored, err := settleDB.Payments.Get(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TxStatus)
	assert.Equal(t, TxCompleted, *stored.TxStatus)
	require.NotNil(t, stored.GasFee)
	assert.Greater(t, *stored.GasFee, 0.0)
}

func TestPaymentListForTeam(t *testing.T) {
	manager, worker := createTestTeam(t)
	outsider := createTestUser(t, RoleWorker)

	mine, err := testDB.Payments.Create(worker.ID, 1000, "Team work", time.Now())
	require.NoError(t, err)
	_, err = testDB.Payments.Create(outsider.ID, 2000, "Someone else's work", time.Now())
	require.NoError(t, err)

	payments, err := testDB.Payments.ListForTeam(manager.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, mine.ID, payments[0].ID)
}

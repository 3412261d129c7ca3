package services

import (
	"context"
	"net/http"
	"testing"

	"media/errors"
	"media/models"
	"media/services/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway ghi lại các call quan trọng trong test; accountInactive giả lập
// Connect account chưa hoàn tất onboarding.
type fakeGateway struct {
	refundCalls        int
	refundErr          error
	lastIntentID       string
	lastReason         string
	accountInactive    bool
	connectCalls       int
	intentCalls        int
	destinationCalls   int
	transferCalls      int
	lastTransferAmount int64
}

func (f *fakeGateway) CreateCustomer(ctx context.Context, businessID uint, email string) (*StripeCustomer, error) {
	return &StripeCustomer{}, nil
}

func (f *fakeGateway) CreatePaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*StripePaymentMethod, error) {
	return &StripePaymentMethod{}, nil
}

func (f *fakeGateway) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*StripeSubscription, error) {
	return &StripeSubscription{}, nil
}

func (f *fakeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error) {
	return &StripeSubscription{}, nil
}

func (f *fakeGateway) CreateConnectAccount(ctx context.Context, businessID uint, email string) (*StripeAccount, error) {
	f.connectCalls++
	return &StripeAccount{ID: "acct_test"}, nil
}

func (f *fakeGateway) CreateAccountLink(ctx context.Context, accountID string, businessID uint) (*StripeAccountLink, error) {
	return &StripeAccountLink{URL: "https://connect.test/onboarding"}, nil
}

func (f *fakeGateway) IsAccountActive(ctx context.Context, accountID string) (bool, error) {
	return !f.accountInactive, nil
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, customerID string, metadata map[string]string) (*StripePaymentIntent, error) {
	f.intentCalls++
	return &StripePaymentIntent{ID: "pi_test"}, nil
}

func (f *fakeGateway) CreateDestinationCharge(ctx context.Context, amountCents int64, customerID, destinationAccountID string, metadata map[string]string) (*StripePaymentIntent, error) {
	f.destinationCalls++
	return &StripePaymentIntent{ID: "pi_test"}, nil
}

func (f *fakeGateway) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*StripeRefund, error) {
	f.refundCalls++
	f.lastIntentID = paymentIntentID
	f.lastReason = reason
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	return &StripeRefund{ID: "re_test", Amount: 10000}, nil
}

func (f *fakeGateway) CreatePayout(ctx context.Context, accountID string, amountCents int64, metadata map[string]string) (*StripePayout, error) {
	return &StripePayout{}, nil
}

func (f *fakeGateway) CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID string, metadata map[string]string) (*StripeTransfer, error) {
	f.transferCalls++
	f.lastTransferAmount = amountCents
	return &StripeTransfer{ID: "tr_test", Amount: amountCents}, nil
}

func newTestRefund(t *testing.T, db *gorm.DB, gateway StripeGateway) *RefundService {
	t.Helper()
	return NewRefundService(RefundServiceOptions{
		DB:      db,
		Gateway: gateway,
		Logger:  logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func createCompletedTransaction(t *testing.T, db *gorm.DB, payer, payee *models.Business) *models.Transaction {
	t.Helper()
	txn := models.Transaction{
		Code:                  "TXN-refund-test-" + payer.Email,
		Status:                models.TransactionStatusCompleted,
		PayerID:               &payer.ID,
		PayeeID:               &payee.ID,
		GrossAmount:           100,
		CreatorShare:          70,
		StripePaymentIntentID: "pi_refund_test",
	}
	require.NoError(t, db.Create(&txn).Error)
	return &txn
}

func TestProcessRefundNotFound(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	refund := newTestRefund(t, db, gateway)

	_, err := refund.ProcessRefund(context.Background(), 9999, "")
	require.Error(t, err)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	require.Equal(t, ErrCodeTransactionNotFound, svcErr.Code)
	require.Equal(t, 0, gateway.refundCalls)
}

func TestProcessRefundRejectsNonCompleted(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	refund := newTestRefund(t, db, gateway)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 70)

	txn := createCompletedTransaction(t, db, payer, payee)
	require.NoError(t, db.Model(txn).Update("status", models.TransactionStatusPending).Error)

	_, err := refund.ProcessRefund(context.Background(), txn.ID, "")
	require.Error(t, err)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	require.Equal(t, ErrCodeInvalidTxnStatus, svcErr.Code)

	// Gateway không được gọi, số dư giữ nguyên
	require.Equal(t, 0, gateway.refundCalls)
	require.InDelta(t, 0.0, reloadBusiness(t, db, payer.ID).RevenueBalance, 0.01)
	require.InDelta(t, 70.0, reloadBusiness(t, db, payee.ID).RevenueBalance, 0.01)
}

func TestProcessRefundRequiresPaymentIntent(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	refund := newTestRefund(t, db, gateway)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 70)

	txn := createCompletedTransaction(t, db, payer, payee)
	require.NoError(t, db.Model(txn).Update("stripe_payment_intent_id", "").Error)

	_, err := refund.ProcessRefund(context.Background(), txn.ID, "")
	require.Error(t, err)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	require.Equal(t, ErrCodeNoPaymentIntent, svcErr.Code)
	require.Equal(t, 0, gateway.refundCalls)
}

func TestProcessRefundCompleted(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	refund := newTestRefund(t, db, gateway)

	payer := createBusiness(t, db, "payer", 10)
	payee := createBusiness(t, db, "payee", 70)
	txn := createCompletedTransaction(t, db, payer, payee)

	result, err := refund.ProcessRefund(context.Background(), txn.ID, "")
	require.NoError(t, err)

	require.Equal(t, "re_test", result.RefundID)
	require.Equal(t, txn.ID, result.TransactionID)
	require.Equal(t, models.TransactionStatusRefunded, result.Status)

	require.Equal(t, 1, gateway.refundCalls)
	require.Equal(t, "pi_refund_test", gateway.lastIntentID)
	// Reason trống mặc định là requested_by_customer
	require.Equal(t, RefundReasonRequestedByCustomer, gateway.lastReason)

	var got models.Transaction
	require.NoError(t, db.First(&got, txn.ID).Error)
	require.Equal(t, models.TransactionStatusRefunded, got.Status)
	require.Equal(t, "re_test", got.StripeRefundID)
	require.NotNil(t, got.RefundedAt)

	// Payer nhận lại gross, payee bị trừ creatorShare
	require.InDelta(t, 110.0, reloadBusiness(t, db, payer.ID).RevenueBalance, 0.01)
	require.InDelta(t, 0.0, reloadBusiness(t, db, payee.ID).RevenueBalance, 0.01)
}

func TestProcessRefundIsNotRepeatable(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	refund := newTestRefund(t, db, gateway)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 70)
	txn := createCompletedTransaction(t, db, payer, payee)

	_, err := refund.ProcessRefund(context.Background(), txn.ID, RefundReasonDuplicate)
	require.NoError(t, err)

	// Transaction đã refunded thì lần gọi thứ hai bị chặn trước gateway
	_, err = refund.ProcessRefund(context.Background(), txn.ID, RefundReasonDuplicate)
	require.Error(t, err)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	require.Equal(t, ErrCodeInvalidTxnStatus, svcErr.Code)
	require.Equal(t, 1, gateway.refundCalls)

	require.InDelta(t, 100.0, reloadBusiness(t, db, payer.ID).RevenueBalance, 0.01)
	require.InDelta(t, 0.0, reloadBusiness(t, db, payee.ID).RevenueBalance, 0.01)
}

func TestProcessRefundGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{
		refundErr: errors.NewGatewayError(GatewayCodeCardDeclined, http.StatusPaymentRequired, "refund bị từ chối"),
	}
	refund := newTestRefund(t, db, gateway)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 70)
	txn := createCompletedTransaction(t, db, payer, payee)

	_, err := refund.ProcessRefund(context.Background(), txn.ID, "")
	require.Error(t, err)

	// Lỗi gateway đã map được trả nguyên vẹn
	gwErr := errors.GetGatewayError(err)
	require.NotNil(t, gwErr)
	require.Equal(t, GatewayCodeCardDeclined, gwErr.Code)

	// Transaction vẫn completed, số dư không đổi
	var got models.Transaction
	require.NoError(t, db.First(&got, txn.ID).Error)
	require.Equal(t, models.TransactionStatusCompleted, got.Status)
	require.Empty(t, got.StripeRefundID)

	require.InDelta(t, 0.0, reloadBusiness(t, db, payer.ID).RevenueBalance, 0.01)
	require.InDelta(t, 70.0, reloadBusiness(t, db, payee.ID).RevenueBalance, 0.01)
}

package services

import (
	"context"
	"net/http"
	"testing"

	"media/constants"
	"media/errors"
	"media/models"
	"media/services/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPayout(t *testing.T, db *gorm.DB, gateway StripeGateway) *PayoutService {
	t.Helper()
	return NewPayoutService(PayoutServiceOptions{
		DB:      db,
		Gateway: gateway,
		Logger:  logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func createConnectedBusiness(t *testing.T, db *gorm.DB, name string, balance float64) *models.Business {
	t.Helper()
	business := createBusiness(t, db, name, balance)
	require.NoError(t, db.Model(business).Update("stripe_account_id", "acct_test").Error)
	business.StripeAccountID = "acct_test"
	return business
}

func requirePayoutCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	gwErr := errors.GetGatewayError(err)
	require.NotNil(t, gwErr)
	require.Equal(t, code, gwErr.Code)
	require.Equal(t, http.StatusBadRequest, gwErr.HTTPStatus)
	require.Equal(t, FriendlyMessage(code), gwErr.Message)
}

func TestStartConnectOnboarding(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	business := createBusiness(t, db, "creator", 0)

	resp, err := payout.StartConnectOnboarding(context.Background(), business.ID)
	require.NoError(t, err)
	require.Equal(t, "acct_test", resp.AccountID)
	require.Equal(t, "https://connect.test/onboarding", resp.OnboardingURL)

	// Account id được lưu lại để lần sau không tạo account mới
	require.Equal(t, "acct_test", reloadBusiness(t, db, business.ID).StripeAccountID)

	_, err = payout.StartConnectOnboarding(context.Background(), business.ID)
	require.NoError(t, err)
	require.Equal(t, 1, gateway.connectCalls)
}

func TestRequestPayoutRequiresConnectAccount(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	business := createBusiness(t, db, "creator", 100)

	_, err := payout.RequestPayout(context.Background(), business.ID, 2000)
	requirePayoutCode(t, err, "stripe_connect_not_active")
	require.Equal(t, 0, gateway.transferCalls)
}

func TestRequestPayoutBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	business := createConnectedBusiness(t, db, "creator", 100)

	_, err := payout.RequestPayout(context.Background(), business.ID, 500)
	requirePayoutCode(t, err, "payout_below_minimum")

	require.Equal(t, 0, gateway.transferCalls)
	require.InDelta(t, 100.0, reloadBusiness(t, db, business.ID).RevenueBalance, 0.01)
}

func TestRequestPayoutInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	business := createConnectedBusiness(t, db, "creator", 10)

	_, err := payout.RequestPayout(context.Background(), business.ID, 2000)
	requirePayoutCode(t, err, "balance_insufficient")
	require.Equal(t, 0, gateway.transferCalls)
}

func TestRequestPayoutNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	// Refund clawback có thể kéo số dư xuống âm
	business := createConnectedBusiness(t, db, "creator", -5)

	_, err := payout.RequestPayout(context.Background(), business.ID, 1000)
	requirePayoutCode(t, err, "negative_balance")
	require.Equal(t, 0, gateway.transferCalls)
}

func TestRequestPayoutInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{accountInactive: true}
	payout := newTestPayout(t, db, gateway)

	business := createConnectedBusiness(t, db, "creator", 100)

	_, err := payout.RequestPayout(context.Background(), business.ID, 2000)
	requirePayoutCode(t, err, "stripe_connect_not_active")
	require.Equal(t, 0, gateway.transferCalls)
}

func TestRequestPayout(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	payout := newTestPayout(t, db, gateway)

	business := createConnectedBusiness(t, db, "creator", 50)

	history, err := payout.RequestPayout(context.Background(), business.ID, 2000)
	require.NoError(t, err)

	require.Equal(t, business.ID, history.BusinessID)
	require.Equal(t, int64(2000), history.AmountCents)
	require.Equal(t, constants.PayoutStatusConfirmed, history.Status)
	require.Equal(t, "tr_test", history.StripePayoutID)

	require.Equal(t, 1, gateway.transferCalls)
	require.Equal(t, int64(2000), gateway.lastTransferAmount)

	// History row và trừ số dư đi cùng nhau
	var got models.PayoutHistory
	require.NoError(t, db.First(&got, history.ID).Error)
	require.Equal(t, int64(2000), got.AmountCents)
	require.InDelta(t, 30.0, reloadBusiness(t, db, business.ID).RevenueBalance, 0.01)
}

package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"media/dto"
	"media/errors"
	"media/models"
	"media/services/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCheckout(t *testing.T, db *gorm.DB, gateway StripeGateway) *CheckoutService {
	t.Helper()
	return NewCheckoutService(CheckoutServiceOptions{
		DB:      db,
		Gateway: gateway,
		Logger:  logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func createMediaAsset(t *testing.T, db *gorm.DB, owner *models.Business, priceCents int64) *models.MediaAsset {
	t.Helper()
	asset := models.MediaAsset{
		Title:      "Sunset",
		MediaType:  "photo",
		PriceCents: priceCents,
		OwnerID:    owner.ID,
	}
	require.NoError(t, db.Create(&asset).Error)
	return &asset
}

func TestPurchaseLicenseDirectSale(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	checkout := newTestCheckout(t, db, gateway)

	buyer := createBusiness(t, db, "buyer", 0)
	creator := createBusiness(t, db, "creator", 0)
	asset := createMediaAsset(t, db, creator, 10000)

	txn, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID: asset.ID,
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(txn.Code, "TXN-"))
	require.Equal(t, models.TransactionStatusCompleted, txn.Status)
	require.Equal(t, "pi_test", txn.StripePaymentIntentID)
	require.InDelta(t, 100.0, txn.GrossAmount, 0.001)
	require.InDelta(t, 70.0, txn.CreatorShare, 0.001)

	// Creator nhận share, buyer ghi nhận chi tiêu
	gotCreator := reloadBusiness(t, db, creator.ID)
	require.InDelta(t, 70.0, gotCreator.RevenueBalance, 0.01)
	require.InDelta(t, 70.0, gotCreator.TotalEarnings, 0.01)
	require.InDelta(t, 100.0, reloadBusiness(t, db, buyer.ID).TotalSpent, 0.01)
}

func TestPurchaseLicensePoolSale(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	checkout := newTestCheckout(t, db, gateway)

	buyer := createBusiness(t, db, "buyer", 0)
	creator := createBusiness(t, db, "creator", 0)
	asset := createMediaAsset(t, db, creator, 5000)
	collection := createCollection(t, db, creator)

	txn, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID:        asset.ID,
		CollectionID:        collection.ID,
		ContributionPercent: 40,
	})
	require.NoError(t, err)

	require.Equal(t, strconv.FormatUint(uint64(collection.ID), 10), txn.Metadata.CollectionID)

	// Earnings chảy vào pool của collection
	pool := newTestPool(t, db)
	earnings, err := pool.GetPoolEarnings(context.Background(), collection.ID)
	require.NoError(t, err)
	require.InDelta(t, 35.0, earnings.TotalRevenue, 0.001)
	require.Equal(t, 1, earnings.TotalLicenses)
	require.Len(t, earnings.MemberEarnings, 1)
	require.InDelta(t, 40.0, earnings.MemberEarnings[0].ContributionPercent, 0.001)
}

func TestPurchaseLicenseRoutesByConnectStatus(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	checkout := newTestCheckout(t, db, gateway)

	buyer := createBusiness(t, db, "buyer", 0)
	creator := createConnectedBusiness(t, db, "creator", 0)
	asset := createMediaAsset(t, db, creator, 10000)

	// Account active thì direct sale đi qua destination charge
	_, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID: asset.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, gateway.destinationCalls)
	require.Equal(t, 0, gateway.intentCalls)
}

func TestPurchaseLicenseFallsBackWhenAccountInactive(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{accountInactive: true}
	checkout := newTestCheckout(t, db, gateway)

	buyer := createBusiness(t, db, "buyer", 0)
	creator := createConnectedBusiness(t, db, "creator", 0)
	asset := createMediaAsset(t, db, creator, 10000)

	// Account chưa active thì charge về platform thay vì destination
	_, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID: asset.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 0, gateway.destinationCalls)
	require.Equal(t, 1, gateway.intentCalls)
}

func TestPurchaseLicenseRejectsUnpricedAsset(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	checkout := newTestCheckout(t, db, gateway)

	buyer := createBusiness(t, db, "buyer", 0)
	creator := createBusiness(t, db, "creator", 0)
	asset := createMediaAsset(t, db, creator, 0)

	_, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID: asset.ID,
	})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeInvalidAmount, appErr.Code)
}

func TestPurchaseLicenseValidatesRequest(t *testing.T) {
	db := newTestDB(t)
	checkout := newTestCheckout(t, db, &fakeGateway{})

	buyer := createBusiness(t, db, "buyer", 0)

	_, err := checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeValidation, appErr.Code)

	_, err = checkout.PurchaseLicense(context.Background(), buyer.ID, dto.PurchaseLicenseRequest{
		MediaAssetID:        1,
		ContributionPercent: 150,
	})
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeValidation, errors.GetAppError(err).Code)
}

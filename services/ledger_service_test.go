package services

import (
	"context"
	"testing"

	"media/models"
	"media/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Business{},
		&models.MediaAsset{},
		&models.Collection{},
		&models.MemberEarning{},
		&models.Transaction{},
		&models.PayoutHistory{},
	)
	require.NoError(t, err)

	return db
}

func newTestLedger(t *testing.T, db *gorm.DB) *LedgerService {
	t.Helper()
	return NewLedgerService(LedgerServiceOptions{
		DB:     db,
		Logger: logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func createBusiness(t *testing.T, db *gorm.DB, name string, balance float64) *models.Business {
	t.Helper()
	business := models.Business{
		Name:           name,
		Email:          name + "@test.com",
		RevenueBalance: balance,
	}
	require.NoError(t, db.Create(&business).Error)
	return &business
}

func reloadBusiness(t *testing.T, db *gorm.DB, id uint) models.Business {
	t.Helper()
	var business models.Business
	require.NoError(t, db.First(&business, id).Error)
	return business
}

func TestRound2(t *testing.T) {
	require.InDelta(t, 82.28, Round2(82.284), 0.0001)
	require.InDelta(t, 82.29, Round2(82.285), 0.0001)
	require.InDelta(t, 0.0, Round2(0), 0.0001)
	require.InDelta(t, -10.57, Round2(-10.565), 0.0001)
}

func TestApplyCharge(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 50)

	err := ledger.ApplyCharge(context.Background(), payer, payee, 100, 70)
	require.NoError(t, err)

	gotPayee := reloadBusiness(t, db, payee.ID)
	require.InDelta(t, 120.0, gotPayee.RevenueBalance, 0.01)
	require.InDelta(t, 70.0, gotPayee.TotalEarnings, 0.01)

	gotPayer := reloadBusiness(t, db, payer.ID)
	require.InDelta(t, 100.0, gotPayer.TotalSpent, 0.01)
}

func TestApplyRefund(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	payer := createBusiness(t, db, "payer", 10)
	payee := createBusiness(t, db, "payee", 70)

	err := ledger.ApplyRefund(context.Background(), payer, payee, 100, 70)
	require.NoError(t, err)

	// Payer nhận lại toàn bộ gross
	gotPayer := reloadBusiness(t, db, payer.ID)
	require.InDelta(t, 110.0, gotPayer.RevenueBalance, 0.01)

	// Payee bị trừ đúng creatorShare đã nhận
	gotPayee := reloadBusiness(t, db, payee.ID)
	require.InDelta(t, 0.0, gotPayee.RevenueBalance, 0.01)
}

func TestApplyRefundAllowsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 5)

	err := ledger.ApplyRefund(context.Background(), payer, payee, 100, 70)
	require.NoError(t, err)

	// Số dư payee được phép âm, không clamp về 0
	gotPayee := reloadBusiness(t, db, payee.ID)
	require.InDelta(t, -65.0, gotPayee.RevenueBalance, 0.01)
}

func TestApplyRefundSkipsMissingSides(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	payee := createBusiness(t, db, "payee", 70)

	err := ledger.ApplyRefund(context.Background(), nil, payee, 100, 70)
	require.NoError(t, err)

	gotPayee := reloadBusiness(t, db, payee.ID)
	require.InDelta(t, 0.0, gotPayee.RevenueBalance, 0.01)

	require.NoError(t, ledger.ApplyRefund(context.Background(), nil, nil, 100, 70))
}

func TestApplyRefundRoundsToTwoDecimals(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)

	payer := createBusiness(t, db, "payer", 0)
	payee := createBusiness(t, db, "payee", 100)

	err := ledger.ApplyRefund(context.Background(), payer, payee, 33.333, 23.333)
	require.NoError(t, err)

	gotPayer := reloadBusiness(t, db, payer.ID)
	require.InDelta(t, 33.33, gotPayer.RevenueBalance, 0.001)

	gotPayee := reloadBusiness(t, db, payee.ID)
	require.InDelta(t, 76.67, gotPayee.RevenueBalance, 0.001)
}

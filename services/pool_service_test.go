package services

import (
	"context"
	"strconv"
	"testing"

	"media/constants"
	"media/errors"
	"media/models"
	"media/services/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPool(t *testing.T, db *gorm.DB) *PoolService {
	t.Helper()
	return NewPoolService(PoolServiceOptions{
		DB:     db,
		Logger: logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func createCollection(t *testing.T, db *gorm.DB, owner *models.Business) *models.Collection {
	t.Helper()
	collection := models.Collection{
		Name:     "Summer Photos",
		PoolType: constants.PoolTypeCompetitive,
		OwnerID:  owner.ID,
	}
	require.NoError(t, db.Create(&collection).Error)
	return &collection
}

func poolTransaction(collection *models.Collection, payeeID uint, share float64, percent float64) *models.Transaction {
	id := payeeID
	return &models.Transaction{
		Status:       models.TransactionStatusCompleted,
		PayeeID:      &id,
		CreatorShare: share,
		Metadata: models.TransactionMetadata{
			CollectionID:        strconv.FormatUint(uint64(collection.ID), 10),
			ContributionPercent: percent,
		},
	}
}

func reloadCollection(t *testing.T, db *gorm.DB, pool *PoolService, id uint) *models.Collection {
	t.Helper()
	collection, err := pool.loadCollection(context.Background(), id)
	require.NoError(t, err)
	return collection
}

func TestUpdateEarningsValidation(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	collection := createCollection(t, db, owner)

	tests := []struct {
		name    string
		txn     *models.Transaction
		message string
	}{
		{
			name:    "nil transaction",
			txn:     nil,
			message: "transaction required",
		},
		{
			name: "negative creatorShare",
			txn: &models.Transaction{
				CreatorShare: -1,
				Metadata:     models.TransactionMetadata{CollectionID: "1"},
			},
			message: "invalid creatorShare",
		},
		{
			name: "missing collectionId",
			txn: &models.Transaction{
				CreatorShare: 10,
			},
			message: "missing collectionId",
		},
		{
			name: "collectionId mismatch",
			txn: &models.Transaction{
				CreatorShare: 10,
				Metadata:     models.TransactionMetadata{CollectionID: "99999"},
			},
			message: "collectionId mismatch",
		},
		{
			name: "missing payee",
			txn: &models.Transaction{
				CreatorShare: 10,
				Metadata: models.TransactionMetadata{
					CollectionID: strconv.FormatUint(uint64(collection.ID), 10),
				},
			},
			message: "missing payee/businessId",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pool.UpdateEarnings(context.Background(), collection, tc.txn)
			require.Error(t, err)

			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			require.Equal(t, errors.ErrCodeValidation, appErr.Code)
			require.Equal(t, tc.message, appErr.Message)

			// Validation fail thì collection không được mutate
			got := reloadCollection(t, db, pool, collection.ID)
			require.InDelta(t, 0.0, got.TotalRevenue, 0.001)
			require.Equal(t, 0, got.TotalLicenses)
			require.Len(t, got.MemberEarnings, 0)
		})
	}
}

func TestUpdateEarningsCreatesMemberEntry(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	creator := createBusiness(t, db, "creator", 0)
	collection := createCollection(t, db, owner)

	updated, err := pool.UpdateEarnings(context.Background(), collection, poolTransaction(collection, creator.ID, 50, 50))
	require.NoError(t, err)

	require.InDelta(t, 50.0, updated.TotalRevenue, 0.001)
	require.Equal(t, 1, updated.TotalLicenses)
	require.Len(t, updated.MemberEarnings, 1)

	entry := updated.MemberEarnings[0]
	require.Equal(t, strconv.FormatUint(uint64(creator.ID), 10), entry.BusinessID)
	require.InDelta(t, 50.0, entry.TotalEarned, 0.001)
	require.Equal(t, 1, entry.LicenseCount)
	require.InDelta(t, 50.0, entry.ContributionPercent, 0.001)
}

func TestUpdateEarningsAccumulates(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	creator := createBusiness(t, db, "creator", 0)
	collection := createCollection(t, db, owner)

	updated, err := pool.UpdateEarnings(context.Background(), collection, poolTransaction(collection, creator.ID, 50, 50))
	require.NoError(t, err)

	// Giao dịch thứ hai không gửi contributionPercent mới
	updated, err = pool.UpdateEarnings(context.Background(), updated, poolTransaction(collection, creator.ID, 30, 0))
	require.NoError(t, err)

	require.InDelta(t, 80.0, updated.TotalRevenue, 0.001)
	require.Equal(t, 2, updated.TotalLicenses)
	require.Len(t, updated.MemberEarnings, 1)

	entry := updated.MemberEarnings[0]
	require.InDelta(t, 80.0, entry.TotalEarned, 0.001)
	require.Equal(t, 2, entry.LicenseCount)
	// contributionPercent giữ nguyên giá trị đã khẳng định trước đó
	require.InDelta(t, 50.0, entry.ContributionPercent, 0.001)
}

func TestUpdateEarningsTotalsMatchMemberSum(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	creatorA := createBusiness(t, db, "creator-a", 0)
	creatorB := createBusiness(t, db, "creator-b", 0)
	collection := createCollection(t, db, owner)

	shares := []struct {
		payee uint
		share float64
	}{
		{creatorA.ID, 10.11},
		{creatorB.ID, 20.22},
		{creatorA.ID, 5.55},
		{creatorB.ID, 0},
	}

	current := collection
	var err error
	for _, s := range shares {
		current, err = pool.UpdateEarnings(context.Background(), current, poolTransaction(collection, s.payee, s.share, 0))
		require.NoError(t, err)
	}

	sum := 0.0
	for _, entry := range current.MemberEarnings {
		sum += entry.TotalEarned
	}
	require.InDelta(t, current.TotalRevenue, sum, 0.001)
	require.Equal(t, 4, current.TotalLicenses)
	require.Len(t, current.MemberEarnings, 2)

	// Thứ tự member giữ nguyên theo thứ tự xuất hiện lần đầu
	require.Equal(t, strconv.FormatUint(uint64(creatorA.ID), 10), current.MemberEarnings[0].BusinessID)
	require.Equal(t, strconv.FormatUint(uint64(creatorB.ID), 10), current.MemberEarnings[1].BusinessID)
}

func TestUpdateEarningsUsesMetadataBusinessID(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	collection := createCollection(t, db, owner)

	txn := &models.Transaction{
		Status:       models.TransactionStatusCompleted,
		CreatorShare: 25,
		Metadata: models.TransactionMetadata{
			CollectionID: strconv.FormatUint(uint64(collection.ID), 10),
			BusinessID:   "external-42",
		},
	}

	updated, err := pool.UpdateEarnings(context.Background(), collection, txn)
	require.NoError(t, err)
	require.Len(t, updated.MemberEarnings, 1)
	require.Equal(t, "external-42", updated.MemberEarnings[0].BusinessID)
}

func TestUpdateEarningsRetriesOnStaleVersion(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	creator := createBusiness(t, db, "creator", 0)
	collection := createCollection(t, db, owner)

	// Giả lập writer khác đã bump version sau khi collection được load
	require.NoError(t, db.Model(&models.Collection{}).
		Where("id = ?", collection.ID).
		Updates(map[string]interface{}{
			"total_revenue":  100.0,
			"total_licenses": 1,
			"version":        gorm.Expr("version + 1"),
		}).Error)

	updated, err := pool.UpdateEarnings(context.Background(), collection, poolTransaction(collection, creator.ID, 50, 0))
	require.NoError(t, err)

	// Retry phải đọc lại state mới rồi cộng tiếp, không ghi đè
	require.InDelta(t, 150.0, updated.TotalRevenue, 0.001)
	require.Equal(t, 2, updated.TotalLicenses)
}

func TestGetPoolEarnings(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	creator := createBusiness(t, db, "creator", 0)
	collection := createCollection(t, db, owner)

	_, err := pool.UpdateEarnings(context.Background(), collection, poolTransaction(collection, creator.ID, 42.5, 100))
	require.NoError(t, err)

	earnings, err := pool.GetPoolEarnings(context.Background(), collection.ID)
	require.NoError(t, err)

	require.Equal(t, collection.ID, earnings.CollectionID)
	require.Equal(t, "Summer Photos", earnings.CollectionName)
	require.InDelta(t, 42.5, earnings.TotalRevenue, 0.001)
	require.Equal(t, 1, earnings.TotalLicenses)
	require.Equal(t, 1, earnings.MemberCount)
	require.Len(t, earnings.MemberEarnings, 1)
}

func TestGetPoolEarningsEmptyCollection(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	owner := createBusiness(t, db, "owner", 0)
	collection := createCollection(t, db, owner)

	earnings, err := pool.GetPoolEarnings(context.Background(), collection.ID)
	require.NoError(t, err)
	require.Equal(t, 0, earnings.MemberCount)
	require.NotNil(t, earnings.MemberEarnings)
	require.Len(t, earnings.MemberEarnings, 0)
}

func TestGetPoolEarningsNotFound(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(t, db)

	_, err := pool.GetPoolEarnings(context.Background(), 9999)
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeDBNotFound, appErr.Code)
}

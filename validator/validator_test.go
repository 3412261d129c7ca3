package validator

import (
	"testing"

	"media/constants"
	"media/errors"
	"media/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func validCollection() *models.Collection {
	return &models.Collection{
		Name:     "Nature Pack",
		PoolType: constants.PoolTypeCompetitive,
		OwnerID:  1,
	}
}

func requireAppErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, code, appErr.Code)
}

func TestValidateCollection(t *testing.T) {
	require.NoError(t, ValidateCollection(validCollection()))

	noName := validCollection()
	noName.Name = ""
	requireAppErrorCode(t, ValidateCollection(noName), errors.ErrCodeRequiredField)

	badPool := validCollection()
	badPool.PoolType = "cooperative"
	requireAppErrorCode(t, ValidateCollection(badPool), errors.ErrCodeInvalidPoolType)

	badSplit := validCollection()
	badSplit.SharingSplit = "weighted"
	requireAppErrorCode(t, ValidateCollection(badSplit), errors.ErrCodeInvalidSplit)
}

func TestValidateCollectionCustomSplit(t *testing.T) {
	custom := func(distribution string) *models.Collection {
		c := validCollection()
		c.SharingSplit = constants.SplitCustom
		if distribution != "" {
			c.SharingDistribution = datatypes.JSON(distribution)
		}
		return c
	}

	require.NoError(t, ValidateCollection(custom(`{"1":60,"2":40}`)))

	// Cho phép sai số làm tròn nhỏ quanh 100
	require.NoError(t, ValidateCollection(custom(`{"1":33.33,"2":33.33,"3":33.34}`)))

	requireAppErrorCode(t, ValidateCollection(custom("")), errors.ErrCodeInvalidSplit)
	requireAppErrorCode(t, ValidateCollection(custom(`not-json`)), errors.ErrCodeInvalidFormat)
	requireAppErrorCode(t, ValidateCollection(custom(`{"1":60,"2":50}`)), errors.ErrCodeInvalidSplit)
	requireAppErrorCode(t, ValidateCollection(custom(`{"1":150,"2":-50}`)), errors.ErrCodeInvalidSplit)
	requireAppErrorCode(t, ValidateCollection(custom(`{"":100}`)), errors.ErrCodeInvalidSplit)
}

func TestValidateMediaAsset(t *testing.T) {
	asset := &models.MediaAsset{
		Title:      "Sunset",
		MediaType:  "photo",
		PriceCents: 500,
		OwnerID:    1,
	}
	require.NoError(t, ValidateMediaAsset(asset))

	asset.PriceCents = -1
	requireAppErrorCode(t, ValidateMediaAsset(asset), errors.ErrCodeInvalidAmount)

	asset.PriceCents = 500
	asset.OwnerID = 0
	requireAppErrorCode(t, ValidateMediaAsset(asset), errors.ErrCodeRequiredField)
}

func TestValidateBusiness(t *testing.T) {
	business := &models.Business{Email: "owner@studio.vn", Password: "secret1"}
	require.NoError(t, ValidateBusiness(business))

	business.Email = "not-an-email"
	requireAppErrorCode(t, ValidateBusiness(business), errors.ErrCodeInvalidEmail)

	business.Email = "owner@studio.vn"
	business.Password = "abc"
	requireAppErrorCode(t, ValidateBusiness(business), errors.ErrCodeValidation)
}

package services

import (
	"context"
	goerrors "errors"
	"strconv"

	"media/dto"
	"media/errors"
	"media/models"
	"media/services/logger"
	"media/services/notification"
	"media/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService xử lý mua license: charge qua gateway, ghi Transaction,
// cộng sổ cho payer/payee và đẩy earnings vào pool nếu media thuộc collection.
type CheckoutService struct {
	db       *gorm.DB
	gateway  StripeGateway
	ledger   *LedgerService
	pool     *PoolService
	notifier notification.Service
	logger   logger.Logger
}

type CheckoutServiceOptions struct {
	DB       *gorm.DB
	Gateway  StripeGateway
	Ledger   *LedgerService
	Pool     *PoolService
	Notifier notification.Service
	Logger   logger.Logger
}

func NewCheckoutService(opts CheckoutServiceOptions) *CheckoutService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	ledger := opts.Ledger
	if ledger == nil {
		ledger = NewLedgerService(LedgerServiceOptions{DB: opts.DB, Logger: log})
	}
	pool := opts.Pool
	if pool == nil {
		pool = NewPoolService(PoolServiceOptions{DB: opts.DB, Logger: log})
	}
	return &CheckoutService{
		db:       opts.DB,
		gateway:  opts.Gateway,
		ledger:   ledger,
		pool:     pool,
		notifier: opts.Notifier,
		logger:   log,
	}
}

// PurchaseLicense charge payer cho một media asset. Creator nhận 70% sau
// phí nền tảng; nếu asset nằm trong collection thì creatorShare đi vào
// pool earnings với metadata collectionId.
func (s *CheckoutService) PurchaseLicense(ctx context.Context, payerID uint, req dto.PurchaseLicenseRequest) (*models.Transaction, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	var payer models.Business
	if err := s.db.WithContext(ctx).First(&payer, payerID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy business", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn business", err)
	}

	var asset models.MediaAsset
	if err := s.db.WithContext(ctx).Preload("Owner").First(&asset, req.MediaAssetID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy media asset", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn media asset", err)
	}
	if asset.PriceCents <= 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidAmount, "media asset chưa có giá license", nil)
	}

	var collection *models.Collection
	if req.CollectionID != 0 {
		var col models.Collection
		err := s.db.WithContext(ctx).
			Preload("MemberEarnings", func(db *gorm.DB) *gorm.DB {
				return db.Order("member_earnings.id ASC")
			}).
			First(&col, req.CollectionID).Error
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy collection", err)
		}
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn collection", err)
		}
		collection = &col
	}

	gross := Round2(float64(asset.PriceCents) / 100)
	creatorShare := Round2(gross * CreatorShareRate)

	metadata := map[string]string{
		"mediaAssetId": strconv.FormatUint(uint64(asset.ID), 10),
		"businessId":   strconv.FormatUint(uint64(asset.OwnerID), 10),
	}
	if collection != nil {
		metadata["collectionId"] = strconv.FormatUint(uint64(collection.ID), 10)
	}

	// Direct sale cho creator có Connect account active thì dùng destination
	// charge; account chưa active hoặc pool sale thì charge về platform
	// rồi chia qua pool earnings
	useDestination := false
	if collection == nil && asset.Owner.StripeAccountID != "" {
		active, err := s.gateway.IsAccountActive(ctx, asset.Owner.StripeAccountID)
		if err != nil {
			return nil, err
		}
		useDestination = active
	}

	var intent *StripePaymentIntent
	var err error
	if useDestination {
		intent, err = s.gateway.CreateDestinationCharge(ctx, asset.PriceCents, payer.StripeCustomerID, asset.Owner.StripeAccountID, metadata)
	} else {
		intent, err = s.gateway.CreatePaymentIntent(ctx, asset.PriceCents, payer.StripeCustomerID, metadata)
	}
	if err != nil {
		return nil, err
	}

	payeeID := asset.OwnerID
	txn := models.Transaction{
		Code:                  "TXN-" + uuid.NewString(),
		Status:                models.TransactionStatusCompleted,
		PayerID:               &payer.ID,
		PayeeID:               &payeeID,
		MediaAssetID:          &asset.ID,
		GrossAmount:           gross,
		CreatorShare:          creatorShare,
		StripePaymentIntentID: intent.ID,
		Metadata: models.TransactionMetadata{
			BusinessID:          strconv.FormatUint(uint64(asset.OwnerID), 10),
			ContributionPercent: req.ContributionPercent,
		},
	}
	if collection != nil {
		txn.Metadata.CollectionID = strconv.FormatUint(uint64(collection.ID), 10)
	}

	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi tạo transaction", err)
	}

	if err := s.ledger.ApplyCharge(ctx, &payer, &asset.Owner, gross, creatorShare); err != nil {
		return nil, err
	}

	if collection != nil {
		if _, err := s.pool.UpdateEarnings(ctx, collection, &txn); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		message := notification.NewEarningsMessageBuilder(asset.OwnerID, creatorShare, asset.Title).Build()
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.Error("❌ Lỗi gửi thông báo earnings: %v", err)
		}
	}

	s.logger.Info("✅ Business %d mua license media %d (%.2f)", payer.ID, asset.ID, gross)
	return &txn, nil
}

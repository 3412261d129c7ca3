package services

import (
	"context"
	goerrors "errors"
	"math"
	"net/http"
	"strconv"

	"media/constants"
	"media/dto"
	"media/errors"
	"media/models"
	"media/services/logger"

	"gorm.io/gorm"
)

// PayoutService xử lý rút tiền về Connect account và onboarding Connect.
type PayoutService struct {
	db      *gorm.DB
	gateway StripeGateway
	logger  logger.Logger
}

type PayoutServiceOptions struct {
	DB      *gorm.DB
	Gateway StripeGateway
	Logger  logger.Logger
}

func NewPayoutService(opts PayoutServiceOptions) *PayoutService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PayoutService{
		db:      opts.DB,
		gateway: opts.Gateway,
		logger:  log,
	}
}

func payoutError(code string) *errors.GatewayError {
	return errors.NewGatewayError(code, http.StatusBadRequest, FriendlyMessage(code))
}

// StartConnectOnboarding tạo Connect account nếu business chưa có rồi trả
// về link onboarding. Gọi lại nhiều lần vẫn dùng account cũ.
func (s *PayoutService) StartConnectOnboarding(ctx context.Context, businessID uint) (*dto.ConnectOnboardingResponse, error) {
	var business models.Business
	if err := s.db.WithContext(ctx).First(&business, businessID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy business", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn business", err)
	}

	accountID := business.StripeAccountID
	if accountID == "" {
		account, err := s.gateway.CreateConnectAccount(ctx, business.ID, business.Email)
		if err != nil {
			return nil, err
		}
		accountID = account.ID
		if err := s.db.WithContext(ctx).Model(&models.Business{}).
			Where("id = ?", business.ID).
			Update("stripe_account_id", accountID).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi lưu connect account", err)
		}
	}

	link, err := s.gateway.CreateAccountLink(ctx, accountID, business.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ Business %d bắt đầu onboarding Connect (%s)", business.ID, accountID)
	return &dto.ConnectOnboardingResponse{
		AccountID:     accountID,
		OnboardingURL: link.URL,
	}, nil
}

// RequestPayout rút amountCents từ revenue balance về Connect account.
// Yêu cầu account đã active, số tiền tối thiểu MinPayoutCents và không
// vượt quá số dư hiện có.
func (s *PayoutService) RequestPayout(ctx context.Context, businessID uint, amountCents int64) (*models.PayoutHistory, error) {
	var business models.Business
	if err := s.db.WithContext(ctx).First(&business, businessID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy business", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn business", err)
	}

	// Mỗi guard mang code riêng để client phân biệt được điều kiện,
	// message lấy từ bảng FriendlyMessage
	if business.StripeAccountID == "" {
		return nil, payoutError("stripe_connect_not_active")
	}
	if amountCents < MinPayoutCents {
		return nil, payoutError("payout_below_minimum")
	}

	balanceCents := int64(math.Round(business.RevenueBalance * 100))
	if balanceCents < 0 {
		return nil, payoutError("negative_balance")
	}
	if amountCents > balanceCents {
		return nil, payoutError("balance_insufficient")
	}

	active, err := s.gateway.IsAccountActive(ctx, business.StripeAccountID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, payoutError("stripe_connect_not_active")
	}

	transfer, err := s.gateway.CreateTransfer(ctx, amountCents, business.StripeAccountID, map[string]string{
		"businessId": strconv.FormatUint(uint64(business.ID), 10),
	})
	if err != nil {
		return nil, err
	}

	payout := models.PayoutHistory{
		BusinessID:     business.ID,
		AmountCents:    amountCents,
		Status:         constants.PayoutStatusConfirmed,
		StripePayoutID: transfer.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payout).Error; err != nil {
			return err
		}
		amount := Round2(float64(amountCents) / 100)
		return tx.Model(&models.Business{}).
			Where("id = ?", business.ID).
			Update("revenue_balance", gorm.Expr("revenue_balance - ?", amount)).Error
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi ghi nhận payout", err)
	}

	s.logger.Info("✅ Business %d rút %d cents (transfer %s)", business.ID, amountCents, transfer.ID)
	return &payout, nil
}

package services

import (
	"context"

	"media/errors"
	"media/models"
	"media/services/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PlatformFeeRate  = 0.30
	CreatorShareRate = 0.70
	MinPayoutCents   = 1000
)

// Round2 làm tròn tiền về 2 chữ số thập phân (half-up, không truncate)
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// LedgerService cập nhật các trường tiền trên Business khi transaction
// hoàn tất hoặc bị refund. Mỗi phía là một single-row update độc lập với
// atomic increment, không phải cross-document transaction.
type LedgerService struct {
	db     *gorm.DB
	logger logger.Logger
}

type LedgerServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewLedgerService(opts LedgerServiceOptions) *LedgerService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &LedgerService{
		db:     opts.DB,
		logger: log,
	}
}

func (s *LedgerService) incrementBalance(ctx context.Context, businessID uint, column string, delta float64) error {
	if err := s.db.WithContext(ctx).Model(&models.Business{}).
		Where("id = ?", businessID).
		Update(column, gorm.Expr(column+" + ?", Round2(delta))).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "lỗi cập nhật số dư business", err)
	}
	return nil
}

// ApplyCharge ghi nhận một giao dịch license hoàn tất: payee được cộng
// creatorShare vào số dư và tổng earnings, payer được cộng gross vào tổng chi.
func (s *LedgerService) ApplyCharge(ctx context.Context, payer, payee *models.Business, grossAmount, creatorShare float64) error {
	if payee != nil {
		if err := s.incrementBalance(ctx, payee.ID, "revenue_balance", creatorShare); err != nil {
			return err
		}
		if err := s.incrementBalance(ctx, payee.ID, "total_earnings", creatorShare); err != nil {
			return err
		}
		s.logger.Info("✅ Cộng %.2f vào số dư business %d", Round2(creatorShare), payee.ID)
	}
	if payer != nil {
		if err := s.incrementBalance(ctx, payer.ID, "total_spent", grossAmount); err != nil {
			return err
		}
	}
	return nil
}

// ApplyRefund đảo ngược một giao dịch đã refund: payer nhận lại toàn bộ
// gross, payee bị trừ creatorShare đã được cộng lúc hoàn tất. Phía nào
// thiếu thì bỏ qua. Số dư có thể âm — đó là clawback semantics của
// provider, caller coi số dư âm kéo dài là điều kiện negative_balance.
func (s *LedgerService) ApplyRefund(ctx context.Context, payer, payee *models.Business, grossAmount, creatorShare float64) error {
	if payer != nil {
		if err := s.incrementBalance(ctx, payer.ID, "revenue_balance", grossAmount); err != nil {
			return err
		}
		s.logger.Info("✅ Hoàn %.2f cho payer %d", Round2(grossAmount), payer.ID)
	}
	if payee != nil {
		if err := s.incrementBalance(ctx, payee.ID, "revenue_balance", -creatorShare); err != nil {
			return err
		}
		s.logger.Info("✅ Trừ %.2f từ payee %d", Round2(creatorShare), payee.ID)
	}
	return nil
}

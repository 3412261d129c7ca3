package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"media/dto"
	"media/models"
	"media/services/logger"

	"gorm.io/gorm"
)

const (
	ErrCodeTransactionNotFound = "transaction_not_found"
	ErrCodeInvalidTxnStatus    = "invalid_status"
	ErrCodeNoPaymentIntent     = "no_payment_intent"
	ErrCodeUpdateFailed        = "update_failed"
)

type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// GetServiceError lấy ServiceError từ error
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if goerrors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// RefundService điều phối refund: kiểm tra trạng thái transaction, gọi
// gateway, lật status rồi điều chỉnh số dư payer/payee qua LedgerService.
type RefundService struct {
	db      *gorm.DB
	gateway StripeGateway
	ledger  *LedgerService
	logger  logger.Logger
}

type RefundServiceOptions struct {
	DB      *gorm.DB
	Gateway StripeGateway
	Ledger  *LedgerService
	Logger  logger.Logger
}

func NewRefundService(opts RefundServiceOptions) *RefundService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	ledger := opts.Ledger
	if ledger == nil {
		ledger = NewLedgerService(LedgerServiceOptions{DB: opts.DB, Logger: log})
	}
	return &RefundService{
		db:      opts.DB,
		gateway: opts.Gateway,
		ledger:  ledger,
		logger:  log,
	}
}

// ProcessRefund chỉ chấp nhận transaction đang ở trạng thái completed.
// Thứ tự side effect cố định: gateway xác nhận refund trước, transaction
// được đánh dấu refunded, sau đó mới điều chỉnh số dư. Crash giữa hai bước
// cuối để lại transaction refunded với số dư cũ chứ không bao giờ
// refund hai lần.
func (s *RefundService) ProcessRefund(ctx context.Context, transactionID uint, reason string) (*dto.RefundResult, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Payer").
		Preload("Payee").
		First(&txn, transactionID).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: fmt.Sprintf("không tìm thấy transaction %d", transactionID),
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeUpdateFailed,
			Message: "lỗi truy vấn transaction",
			Err:     err,
		}
	}

	if txn.Status != models.TransactionStatusCompleted {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTxnStatus,
			Message: fmt.Sprintf("transaction %d không ở trạng thái completed", txn.ID),
		}
	}
	if txn.StripePaymentIntentID == "" {
		return nil, &ServiceError{
			Code:    ErrCodeNoPaymentIntent,
			Message: fmt.Sprintf("transaction %d không có payment intent", txn.ID),
		}
	}

	if reason == "" {
		reason = RefundReasonRequestedByCustomer
	}

	// Gateway fail thì trả thẳng lỗi đã map, không retry ở tầng này
	refund, err := s.gateway.CreateRefund(ctx, txn.StripePaymentIntentID, reason)
	if err != nil {
		s.logger.Error("❌ Gateway từ chối refund transaction %d: %v", txn.ID, err)
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", txn.ID).
		Updates(map[string]interface{}{
			"status":           models.TransactionStatusRefunded,
			"stripe_refund_id": refund.ID,
			"refunded_at":      now,
		}).Error; err != nil {
		// Refund đã được tạo phía gateway, chỉ còn ghi nhận local fail
		s.logger.Error("❌ Refund %s đã tạo nhưng không ghi được transaction %d: %v", refund.ID, txn.ID, err)
		return nil, &ServiceError{
			Code:    ErrCodeUpdateFailed,
			Message: "lỗi cập nhật transaction sau refund",
			Err:     err,
		}
	}

	if err := s.ledger.ApplyRefund(ctx, txn.Payer, txn.Payee, txn.GrossAmount, txn.CreatorShare); err != nil {
		return nil, err
	}

	s.logger.Info("✅ Đã refund transaction %d (refund %s)", txn.ID, refund.ID)
	return &dto.RefundResult{
		RefundID:      refund.ID,
		Amount:        refund.Amount,
		TransactionID: txn.ID,
		Status:        models.TransactionStatusRefunded,
	}, nil
}

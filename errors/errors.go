package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"
	ErrCodeInvalidEmail    ErrorCode = "INVALID_EMAIL"

	// Business errors
	ErrCodeInvalidBusinessID ErrorCode = "INVALID_BUSINESS_ID"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidSplit      ErrorCode = "INVALID_SPLIT"
	ErrCodeInvalidPoolType   ErrorCode = "INVALID_POOL_TYPE"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// State machine / concurrency errors
	ErrCodeInvalidState    ErrorCode = "INVALID_STATE"
	ErrCodeVersionConflict ErrorCode = "VERSION_CONFLICT"
	ErrCodeInvalidConfig   ErrorCode = "INVALID_CONFIG"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GatewayError là lỗi đã chuẩn hóa từ payment provider.
// Code ổn định (card_declined, invalid_request, ...) và HTTPStatus
// được giữ nguyên từ lúc map cho đến presentation layer.
type GatewayError struct {
	Code       string
	HTTPStatus int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewGatewayError tạo một GatewayError mới
func NewGatewayError(code string, httpStatus int, message string) *GatewayError {
	return &GatewayError{
		Code:       code,
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

// GetGatewayError lấy GatewayError từ error
func GetGatewayError(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return nil
}

var (
	// Business errors
	ErrBusinessNotFound      = errors.New("business not found")
	ErrBusinessAlreadyExists = errors.New("business already exists")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrUnauthorized          = errors.New("unauthorized")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionInvalid  = errors.New("invalid transaction")
	ErrAlreadyRefunded     = errors.New("transaction already refunded")

	// Collection errors
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNotCollectionOwner = errors.New("not collection owner")

	// Payment errors
	ErrPaymentFailed = errors.New("payment failed")
	ErrInvalidAmount = errors.New("invalid amount")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)

package services

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"

	"media/errors"
)

// Gateway error codes đã chuẩn hóa
const (
	GatewayCodeCardDeclined   = "card_declined"
	GatewayCodeInvalidRequest = "invalid_request"
	GatewayCodeAPIError       = "api_error"
	GatewayCodeNetworkError   = "network_error"
	GatewayCodeAuthError      = "auth_error"
	GatewayCodeRateLimit      = "rate_limit"
	GatewayCodeUnknown        = "unknown_error"
)

// StripeError là shape lỗi thô trả về từ payment provider
type StripeError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *StripeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return e.Message
}

// MapStripeError dịch lỗi của provider sang GatewayError chuẩn hóa.
// Hàm thuần, không bao giờ trả nil; lỗi đã map rồi được giữ nguyên.
func MapStripeError(err error) *errors.GatewayError {
	if mapped := errors.GetGatewayError(err); mapped != nil {
		return mapped
	}

	var se *StripeError
	if !goerrors.As(err, &se) || se.Type == "" {
		return errors.NewGatewayError(GatewayCodeUnknown, http.StatusInternalServerError, FriendlyMessage(GatewayCodeUnknown))
	}

	// Provider có thể gắn prefix "Stripe" vào type (StripeCardError, ...)
	providerType := strings.TrimPrefix(se.Type, "Stripe")

	var code string
	var status int
	switch {
	case strings.HasPrefix(providerType, "CardError"):
		code, status = GatewayCodeCardDeclined, http.StatusPaymentRequired
	case strings.HasPrefix(providerType, "InvalidRequestError"):
		code, status = GatewayCodeInvalidRequest, http.StatusBadRequest
	case strings.HasPrefix(providerType, "APIError"):
		code, status = GatewayCodeAPIError, http.StatusInternalServerError
	case strings.HasPrefix(providerType, "ConnectionError"):
		code, status = GatewayCodeNetworkError, http.StatusServiceUnavailable
	case strings.HasPrefix(providerType, "AuthenticationError"):
		code, status = GatewayCodeAuthError, http.StatusUnauthorized
	case strings.HasPrefix(providerType, "RateLimitError"):
		code, status = GatewayCodeRateLimit, http.StatusTooManyRequests
	default:
		code, status = GatewayCodeUnknown, http.StatusInternalServerError
	}

	return errors.NewGatewayError(code, status, FriendlyMessage(code))
}

var friendlyMessages = map[string]string{
	GatewayCodeCardDeclined:   "Thẻ của bạn đã bị từ chối. Vui lòng thử thẻ khác.",
	GatewayCodeInvalidRequest: "Yêu cầu thanh toán không hợp lệ.",
	GatewayCodeAPIError:       "Hệ thống thanh toán đang gặp sự cố. Vui lòng thử lại sau.",
	GatewayCodeNetworkError:   "Không kết nối được đến hệ thống thanh toán. Vui lòng thử lại.",
	GatewayCodeAuthError:      "Xác thực với hệ thống thanh toán thất bại.",
	GatewayCodeRateLimit:      "Quá nhiều yêu cầu. Vui lòng thử lại sau ít phút.",
	GatewayCodeUnknown:        "Đã xảy ra lỗi thanh toán không xác định.",

	"insufficient_funds":        "Thẻ không đủ số dư để thực hiện giao dịch.",
	"expired_card":              "Thẻ đã hết hạn.",
	"incorrect_cvc":             "Mã CVC không đúng.",
	"incorrect_number":          "Số thẻ không đúng.",
	"invalid_expiry_month":      "Tháng hết hạn của thẻ không hợp lệ.",
	"invalid_expiry_year":       "Năm hết hạn của thẻ không hợp lệ.",
	"processing_error":          "Lỗi xử lý giao dịch. Vui lòng thử lại.",
	"invalid_amount":            "Số tiền giao dịch không hợp lệ.",
	"authentication_failure":    "Xác thực giao dịch thất bại.",
	"balance_insufficient":      "Số dư không đủ để thực hiện giao dịch.",
	"refund_already_issued":     "Giao dịch này đã được hoàn tiền.",
	"refund_window_expired":     "Đã quá thời hạn hoàn tiền cho giao dịch này.",
	"payout_below_minimum":      "Số tiền rút phải đạt mức tối thiểu.",
	"stripe_connect_not_active": "Tài khoản nhận tiền chưa được kích hoạt.",
	"negative_balance":          "Số dư tài khoản đang âm.",
}

// FriendlyMessage trả về message hiển thị cho người dùng theo code.
// Code chưa được map sẽ dùng message của unknown_error.
func FriendlyMessage(code string) string {
	if msg, ok := friendlyMessages[code]; ok {
		return msg
	}
	return friendlyMessages[GatewayCodeUnknown]
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"media/errors"
	"media/services/logger"

	"github.com/google/uuid"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// Refund reasons được provider chấp nhận
const (
	RefundReasonDuplicate           = "duplicate"
	RefundReasonFraudulent          = "fraudulent"
	RefundReasonRequestedByCustomer = "requested_by_customer"
)

// StripeCustomer là customer object từ provider
type StripeCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type StripePaymentMethod struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

type StripeSubscription struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Customer string `json:"customer"`
}

type StripeAccount struct {
	ID               string `json:"id"`
	DetailsSubmitted bool   `json:"details_submitted"`
	ChargesEnabled   bool   `json:"charges_enabled"`
}

type StripeAccountLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

type StripePaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

type StripeRefund struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	PaymentIntent string `json:"payment_intent"`
}

type StripePayout struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type StripeTransfer struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
}

// StripeGateway là contract với payment provider. Mọi method đều có thể fail
// với lỗi đã qua MapStripeError (GatewayError) hoặc AppError cho lỗi cấu hình.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, businessID uint, email string) (*StripeCustomer, error)
	CreatePaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*StripePaymentMethod, error)
	CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*StripeSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error)
	CreateConnectAccount(ctx context.Context, businessID uint, email string) (*StripeAccount, error)
	CreateAccountLink(ctx context.Context, accountID string, businessID uint) (*StripeAccountLink, error)
	IsAccountActive(ctx context.Context, accountID string) (bool, error)
	CreatePaymentIntent(ctx context.Context, amountCents int64, customerID string, metadata map[string]string) (*StripePaymentIntent, error)
	CreateDestinationCharge(ctx context.Context, amountCents int64, customerID, destinationAccountID string, metadata map[string]string) (*StripePaymentIntent, error)
	CreateRefund(ctx context.Context, paymentIntentID, reason string) (*StripeRefund, error)
	CreatePayout(ctx context.Context, accountID string, amountCents int64, metadata map[string]string) (*StripePayout, error)
	CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID string, metadata map[string]string) (*StripeTransfer, error)
}

// StripeService gọi REST API của provider. Được khởi tạo một lần lúc startup
// và inject vào các service cần gateway, không dùng singleton module-level.
type StripeService struct {
	apiKey      string
	frontendURL string
	httpClient  *http.Client
	logger      logger.Logger
}

type StripeServiceOptions struct {
	APIKey      string
	FrontendURL string
	HTTPClient  *http.Client
	Logger      logger.Logger
}

func NewStripeService(opts StripeServiceOptions) *StripeService {
	client := opts.HTTPClient
	if client == nil {
		// Timeout chặn mọi call đến gateway; hết timeout được coi là network_error
		client = &http.Client{Timeout: 15 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &StripeService{
		apiKey:      opts.APIKey,
		frontendURL: strings.TrimSuffix(opts.FrontendURL, "/"),
		httpClient:  client,
		logger:      log,
	}
}

func (s *StripeService) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	return s.doAs(ctx, method, path, form, "", out)
}

// doAs gọi API trong context của một connected account khi accountID khác rỗng
func (s *StripeService) doAs(ctx context.Context, method, path string, form url.Values, accountID string, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, stripeAPIBase+path, body)
	if err != nil {
		return MapStripeError(&StripeError{Type: "StripeConnectionError", Message: err.Error()})
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if accountID != "" {
		req.Header.Set("Stripe-Account", accountID)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("❌ Lỗi kết nối Stripe %s: %v", path, err)
		return MapStripeError(&StripeError{Type: "StripeConnectionError", Message: err.Error()})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return MapStripeError(&StripeError{Type: "StripeConnectionError", Message: err.Error()})
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error StripeError `json:"error"`
		}
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Error.Type == "" {
			s.logger.Error("❌ Stripe trả về lỗi không đọc được (%d): %s", resp.StatusCode, string(raw))
			return MapStripeError(&StripeError{Message: string(raw)})
		}
		return MapStripeError(&apiErr.Error)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return MapStripeError(&StripeError{Message: fmt.Sprintf("parse response: %v", err)})
		}
	}
	return nil
}

func metadataForm(form url.Values, metadata map[string]string) {
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}
}

func (s *StripeService) CreateCustomer(ctx context.Context, businessID uint, email string) (*StripeCustomer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("metadata[businessId]", strconv.FormatUint(uint64(businessID), 10))

	var customer StripeCustomer
	if err := s.do(ctx, http.MethodPost, "/customers", form, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *StripeService) CreatePaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*StripePaymentMethod, error) {
	form := url.Values{}
	form.Set("customer", customerID)

	var pm StripePaymentMethod
	if err := s.do(ctx, http.MethodPost, "/payment_methods/"+paymentMethodID+"/attach", form, &pm); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *StripeService) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*StripeSubscription, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("items[0][price]", priceID)
	metadataForm(form, metadata)

	var sub StripeSubscription
	if err := s.do(ctx, http.MethodPost, "/subscriptions", form, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *StripeService) CancelSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error) {
	var sub StripeSubscription
	if err := s.do(ctx, http.MethodDelete, "/subscriptions/"+subscriptionID, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *StripeService) CreateConnectAccount(ctx context.Context, businessID uint, email string) (*StripeAccount, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("email", email)
	form.Set("metadata[businessId]", strconv.FormatUint(uint64(businessID), 10))

	var account StripeAccount
	if err := s.do(ctx, http.MethodPost, "/accounts", form, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *StripeService) CreateAccountLink(ctx context.Context, accountID string, businessID uint) (*StripeAccountLink, error) {
	if s.frontendURL == "" {
		return nil, errors.NewAppError(errors.ErrCodeInvalidConfig, "FRONTEND_URL chưa được cấu hình", nil)
	}

	form := url.Values{}
	form.Set("account", accountID)
	form.Set("type", "account_onboarding")
	form.Set("refresh_url", fmt.Sprintf("%s/business/%d/connect/refresh", s.frontendURL, businessID))
	form.Set("return_url", fmt.Sprintf("%s/business/%d/connect/return", s.frontendURL, businessID))

	var link StripeAccountLink
	if err := s.do(ctx, http.MethodPost, "/account_links", form, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// IsAccountActive trả về true khi provider báo account đã submit đủ thông tin
// và được phép nhận charge.
func (s *StripeService) IsAccountActive(ctx context.Context, accountID string) (bool, error) {
	var account StripeAccount
	if err := s.do(ctx, http.MethodGet, "/accounts/"+accountID, nil, &account); err != nil {
		return false, err
	}
	return account.DetailsSubmitted && account.ChargesEnabled, nil
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, amountCents int64, customerID string, metadata map[string]string) (*StripePaymentIntent, error) {
	if amountCents <= 0 {
		return nil, errors.NewGatewayError("invalid_amount", http.StatusBadRequest, FriendlyMessage("invalid_amount"))
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	form.Set("customer", customerID)
	form.Set("automatic_payment_methods[enabled]", "true")
	metadataForm(form, metadata)

	var intent StripePaymentIntent
	if err := s.do(ctx, http.MethodPost, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (s *StripeService) CreateDestinationCharge(ctx context.Context, amountCents int64, customerID, destinationAccountID string, metadata map[string]string) (*StripePaymentIntent, error) {
	if amountCents <= 0 {
		return nil, errors.NewGatewayError("invalid_amount", http.StatusBadRequest, FriendlyMessage("invalid_amount"))
	}
	if destinationAccountID == "" {
		return nil, errors.NewGatewayError(GatewayCodeInvalidRequest, http.StatusBadRequest, FriendlyMessage(GatewayCodeInvalidRequest))
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	form.Set("customer", customerID)
	form.Set("transfer_data[destination]", destinationAccountID)
	metadataForm(form, metadata)

	var intent StripePaymentIntent
	if err := s.do(ctx, http.MethodPost, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (s *StripeService) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*StripeRefund, error) {
	if paymentIntentID == "" {
		return nil, errors.NewGatewayError(GatewayCodeInvalidRequest, http.StatusBadRequest, FriendlyMessage(GatewayCodeInvalidRequest))
	}
	if reason == "" {
		reason = RefundReasonRequestedByCustomer
	}
	switch reason {
	case RefundReasonDuplicate, RefundReasonFraudulent, RefundReasonRequestedByCustomer:
	default:
		return nil, errors.NewGatewayError(GatewayCodeInvalidRequest, http.StatusBadRequest, FriendlyMessage(GatewayCodeInvalidRequest))
	}

	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	form.Set("reason", reason)

	var refund StripeRefund
	if err := s.do(ctx, http.MethodPost, "/refunds", form, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (s *StripeService) CreatePayout(ctx context.Context, accountID string, amountCents int64, metadata map[string]string) (*StripePayout, error) {
	if amountCents <= 0 {
		return nil, errors.NewGatewayError("invalid_amount", http.StatusBadRequest, FriendlyMessage("invalid_amount"))
	}
	if accountID == "" {
		return nil, errors.NewGatewayError(GatewayCodeInvalidRequest, http.StatusBadRequest, FriendlyMessage(GatewayCodeInvalidRequest))
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	metadataForm(form, metadata)

	// Payout chạy trên connected account
	var payout StripePayout
	if err := s.doAs(ctx, http.MethodPost, "/payouts", form, accountID, &payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

func (s *StripeService) CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID string, metadata map[string]string) (*StripeTransfer, error) {
	if amountCents <= 0 {
		return nil, errors.NewGatewayError("invalid_amount", http.StatusBadRequest, FriendlyMessage("invalid_amount"))
	}
	if destinationAccountID == "" {
		return nil, errors.NewGatewayError(GatewayCodeInvalidRequest, http.StatusBadRequest, FriendlyMessage(GatewayCodeInvalidRequest))
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	form.Set("destination", destinationAccountID)
	metadataForm(form, metadata)

	var transfer StripeTransfer
	if err := s.do(ctx, http.MethodPost, "/transfers", form, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

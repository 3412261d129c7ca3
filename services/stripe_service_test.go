package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"media/services/logger"

	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newCapturedStripeService(captured **http.Request, body string) *StripeService {
	return NewStripeService(StripeServiceOptions{
		APIKey: "sk_test",
		HTTPClient: &http.Client{
			Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				*captured = req
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewReader([]byte(body))),
					Header:     http.Header{},
				}, nil
			}),
		},
		Logger: logger.NewDefaultLogger(logger.ErrorLevel),
	})
}

func TestCreatePayoutScopesToConnectedAccount(t *testing.T) {
	var captured *http.Request
	svc := newCapturedStripeService(&captured, `{"id":"po_test","amount":2000,"status":"paid"}`)

	payout, err := svc.CreatePayout(context.Background(), "acct_test", 2000, map[string]string{"businessId": "1"})
	require.NoError(t, err)
	require.Equal(t, "po_test", payout.ID)

	require.NotNil(t, captured)
	require.Equal(t, "/v1/payouts", captured.URL.Path)
	// Connected account đi qua header, không nằm trên query string
	require.Equal(t, "acct_test", captured.Header.Get("Stripe-Account"))
	require.Empty(t, captured.URL.RawQuery)
	require.Equal(t, "Bearer sk_test", captured.Header.Get("Authorization"))
}

func TestPlatformCallsOmitAccountHeader(t *testing.T) {
	var captured *http.Request
	svc := newCapturedStripeService(&captured, `{"id":"cus_test","email":"owner@studio.vn"}`)

	customer, err := svc.CreateCustomer(context.Background(), 1, "owner@studio.vn")
	require.NoError(t, err)
	require.Equal(t, "cus_test", customer.ID)

	require.NotNil(t, captured)
	require.Empty(t, captured.Header.Get("Stripe-Account"))
}

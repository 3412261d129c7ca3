package dto

type CreateSubscriptionRequest struct {
	PriceID         string `json:"priceId" binding:"required"`
	PaymentMethodID string `json:"paymentMethodId"`
}

type SubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	Status         string `json:"status"`
	PriceID        string `json:"priceId"`
}

package dto

import "time"

type PayoutHistoryResponse struct {
	ID        uint      `json:"id"`
	Amount    int64     `json:"amount"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Business  Actor     `json:"business"`
	Reason    string    `json:"reason"`
}

type PayoutHistoryListResponse struct {
	Data  []PayoutHistoryResponse `json:"data"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int64                   `json:"total"`
}

type CreatePayoutRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

type PayoutHistoryFilter struct {
	BusinessID uint   `form:"businessId,default=0"`
	Status     int    `form:"status,default=-1"`
	FromDate   string `form:"fromDate,default=''"`
	ToDate     string `form:"toDate,default=''"`
	Page       int    `form:"page,default=0"`
	Limit      int    `form:"limit,default=10"`
}

// ConnectOnboardingResponse định nghĩa response khi bắt đầu onboarding Connect
type ConnectOnboardingResponse struct {
	AccountID     string `json:"accountId"`
	OnboardingURL string `json:"onboardingUrl"`
}

package dto

import "time"

// PurchaseLicenseRequest định nghĩa request mua license media
type PurchaseLicenseRequest struct {
	MediaAssetID        uint    `json:"mediaAssetId" binding:"required" validate:"required"`
	CollectionID        uint    `json:"collectionId"`
	ContributionPercent float64 `json:"contributionPercent" validate:"gte=0,lte=100"`
}

// RefundRequest định nghĩa request refund transaction
type RefundRequest struct {
	TransactionID uint   `json:"transactionId" binding:"required"`
	Reason        string `json:"reason"`
}

// RefundResult định nghĩa kết quả refund từ gateway
type RefundResult struct {
	RefundID      string `json:"refundId"`
	Amount        int64  `json:"amount"`
	TransactionID uint   `json:"transactionId"`
	Status        int    `json:"status"`
}

// TransactionResponse định nghĩa response cho transaction
type TransactionResponse struct {
	ID           uint       `json:"id"`
	Code         string     `json:"code"`
	Status       int        `json:"status"`
	PayerID      *uint      `json:"payerId"`
	PayeeID      *uint      `json:"payeeId"`
	GrossAmount  float64    `json:"grossAmount"`
	CreatorShare float64    `json:"creatorShare"`
	RefundedAt   *time.Time `json:"refundedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

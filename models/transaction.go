package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Transaction status constants
const (
	TransactionStatusPending   = 0
	TransactionStatusCompleted = 1
	TransactionStatusRefunded  = 2
	TransactionStatusFailed    = 3
)

type Transaction struct {
	ID                    uint                `json:"id" gorm:"primaryKey"`
	Code                  string              `json:"code" gorm:"unique;size:40"`
	Status                int                 `json:"status"`
	PayerID               *uint               `json:"payerId"`
	Payer                 *Business           `json:"payer" gorm:"foreignKey:PayerID"`
	PayeeID               *uint               `json:"payeeId"`
	Payee                 *Business           `json:"payee" gorm:"foreignKey:PayeeID"`
	MediaAssetID          *uint               `json:"mediaAssetId"`
	GrossAmount           float64             `json:"grossAmount"`  // Số tiền gốc đã charge
	CreatorShare          float64             `json:"creatorShare"` // Phần của creator sau phí nền tảng
	StripePaymentIntentID string              `json:"stripePaymentIntentId"`
	StripeRefundID        string              `json:"stripeRefundId"`
	RefundedAt            *time.Time          `json:"refundedAt,omitempty"`
	Metadata              TransactionMetadata `json:"metadata" gorm:"serializer:json"`
	CreatedAt             time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TransactionMetadata là metadata dạng map với các key đã biết được type hóa,
// key lạ được giữ trong Extra để tương thích về sau.
type TransactionMetadata struct {
	CollectionID        string                 `json:"-"`
	BusinessID          string                 `json:"-"`
	ContributionPercent float64                `json:"-"`
	Extra               map[string]interface{} `json:"-"`
}

func (m TransactionMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.CollectionID != "" {
		out["collectionId"] = m.CollectionID
	}
	if m.BusinessID != "" {
		out["businessId"] = m.BusinessID
	}
	if m.ContributionPercent != 0 {
		out["contributionPercent"] = m.ContributionPercent
	}
	return json.Marshal(out)
}

func (m *TransactionMetadata) UnmarshalJSON(data []byte) error {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = TransactionMetadata{}
	for k, v := range raw {
		switch k {
		case "collectionId":
			m.CollectionID = asString(v)
		case "businessId":
			m.BusinessID = asString(v)
		case "contributionPercent":
			m.ContributionPercent = asFloat(v)
		default:
			if m.Extra == nil {
				m.Extra = map[string]interface{}{}
			}
			m.Extra[k] = v
		}
	}
	return nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case string:
		parsed, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

package models

import (
	"time"
)

type Business struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name             string    `gorm:"default:New Business" json:"name"`
	Email            string    `gorm:"unique" json:"email"`
	Password         string    `json:"password"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`
	Avatar           string    `json:"avatar"`
	Role             int       `gorm:"default:0" json:"role"`
	Status           int       `gorm:"default:1" json:"status"`
	RevenueBalance   float64   `gorm:"type:decimal(12,2);default:0" json:"revenueBalance"` // Số dư có thể rút, refund có thể kéo âm
	TotalEarnings    float64   `gorm:"type:decimal(12,2);default:0" json:"totalEarnings"`
	TotalSpent       float64   `gorm:"type:decimal(12,2);default:0" json:"totalSpent"`
	StripeCustomerID string    `json:"stripeCustomerId"`
	StripeAccountID  string    `json:"stripeAccountId"` // Connect account dùng cho payout / destination charge

	MediaAssets []MediaAsset `json:"mediaAssets,omitempty" gorm:"foreignKey:OwnerID"`
}

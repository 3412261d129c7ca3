package models

import "time"

type PayoutHistory struct {
	ID             uint      `gorm:"primaryKey"`
	BusinessID     uint      `gorm:"not null"`
	AmountCents    int64     `gorm:"not null"`
	Status         int       `gorm:"not null;default:0"`
	StripePayoutID string    `gorm:"size:64"`
	Reason         string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Business Business `gorm:"foreignKey:BusinessID" json:"business"`
}

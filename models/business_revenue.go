package models

import "time"

type BusinessRevenue struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID   uint      `gorm:"not null;uniqueIndex:idx_business_date" json:"business_id"`
	Business     Business  `gorm:"foreignKey:BusinessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"business"`
	Date         time.Time `gorm:"not null;uniqueIndex:idx_business_date" json:"date"`
	Revenue      float64   `gorm:"not null" json:"revenue"`
	LicenseCount int       `gorm:"not null" json:"license_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

package models

import "time"

// MemberEarning là sổ earnings của một business trong collection.
// Thứ tự insert được giữ nguyên (scan theo primary key tăng dần).
type MemberEarning struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	CollectionID        uint      `gorm:"not null;index" json:"-"`
	BusinessID          string    `gorm:"type:varchar(32);not null" json:"businessId"`
	TotalEarned         float64   `gorm:"type:decimal(12,2);not null;default:0" json:"totalEarned"`
	LicenseCount        int       `gorm:"not null;default:0" json:"licenseCount"`
	ContributionPercent float64   `gorm:"not null;default:0" json:"contributionPercent"` // 0–100
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"-"`
}

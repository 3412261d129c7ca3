package models

import (
	"time"

	"gorm.io/datatypes"
)

type Collection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	PoolType    string    `gorm:"type:varchar(20);not null" json:"poolType"` // competitive | complementary
	OwnerID     uint      `gorm:"not null" json:"ownerId"`
	Owner       Business  `json:"owner" gorm:"foreignKey:OwnerID"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	MemberBusinesses []Business   `json:"memberBusinesses" gorm:"many2many:collection_members;"`
	MediaAssets      []MediaAsset `json:"mediaAssets" gorm:"many2many:collection_media;"`

	// Mô hình chia doanh thu: equal | proportional | custom.
	// Distribution là map businessId -> percent cho mô hình custom.
	SharingSplit        string         `gorm:"type:varchar(20);default:equal" json:"sharingSplit"`
	SharingDistribution datatypes.JSON `json:"sharingDistribution"`

	// Bộ đếm tích lũy. TotalRevenue luôn bằng tổng MemberEarnings[*].TotalEarned,
	// hai phía được ghi trong cùng một DB transaction.
	TotalRevenue  float64 `gorm:"type:decimal(12,2);default:0" json:"totalRevenue"`
	TotalLicenses int     `gorm:"default:0" json:"totalLicenses"`

	// Optimistic lock cho UpdateEarnings
	Version int `gorm:"default:0" json:"-"`

	MemberEarnings []MemberEarning `json:"memberEarnings" gorm:"foreignKey:CollectionID"`
}

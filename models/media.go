package models

import (
	"time"

	"github.com/lib/pq"
)

type MediaAsset struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	URL         string         `gorm:"not null" json:"url"`
	PublicID    string         `json:"publicId"` // ID trên Cloudinary
	MediaType   string         `gorm:"type:varchar(20)" json:"mediaType"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	PriceCents  int64          `gorm:"not null;default:0" json:"priceCents"`
	Status      int            `gorm:"default:0" json:"status"`
	OwnerID     uint           `json:"ownerId"`
	Owner       Business       `json:"owner" gorm:"foreignKey:OwnerID"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

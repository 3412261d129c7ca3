package dto

import "time"

// CreateCollectionRequest định nghĩa request tạo collection
type CreateCollectionRequest struct {
	Name                string             `json:"name" binding:"required"`
	Description         string             `json:"description"`
	PoolType            string             `json:"poolType" binding:"required"`
	SharingSplit        string             `json:"sharingSplit"`
	SharingDistribution map[string]float64 `json:"sharingDistribution"`
	MemberBusinessIDs   []uint             `json:"memberBusinessIds"`
	MediaAssetIDs       []uint             `json:"mediaAssetIds"`
}

type UpdateCollectionRequest struct {
	Name                string             `json:"name"`
	Description         string             `json:"description"`
	SharingSplit        string             `json:"sharingSplit"`
	SharingDistribution map[string]float64 `json:"sharingDistribution"`
}

type CollectionMemberRequest struct {
	BusinessID uint `json:"businessId" binding:"required"`
}

type CollectionMediaRequest struct {
	MediaAssetID uint `json:"mediaAssetId" binding:"required"`
}

// CollectionResponse định nghĩa response cho collection
type CollectionResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	PoolType      string          `json:"poolType"`
	SharingSplit  string          `json:"sharingSplit"`
	Owner         Actor           `json:"owner"`
	Members       []Actor         `json:"members"`
	MediaAssets   []MediaResponse `json:"mediaAssets"`
	TotalRevenue  float64         `json:"totalRevenue"`
	TotalLicenses int             `json:"totalLicenses"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type CollectionFilter struct {
	OwnerID  uint   `form:"ownerId,default=0"`
	PoolType string `form:"poolType"`
	Page     int    `form:"page,default=0"`
	Limit    int    `form:"limit,default=10"`
}

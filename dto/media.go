package dto

import "time"

// CreateMediaRequest định nghĩa request tạo media asset
type CreateMediaRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	MediaType   string   `json:"mediaType" binding:"required"`
	PriceCents  int64    `json:"priceCents" binding:"required,min=1"`
	Tags        []string `json:"tags"`
}

type UpdateMediaRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents"`
	Tags        []string `json:"tags"`
}

// MediaResponse định nghĩa response cho media asset
type MediaResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MediaType   string    `json:"mediaType"`
	URL         string    `json:"url"`
	PriceCents  int64     `json:"priceCents"`
	Tags        []string  `json:"tags"`
	Status      int       `json:"status"`
	Owner       Actor     `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MediaSearchFilters định nghĩa bộ lọc tìm kiếm media trên Elasticsearch
type MediaSearchFilters struct {
	Query     string
	MediaType string
	Tags      []string
	OwnerID   *uint
	Status    *int
	PriceMin  *int64
	PriceMax  *int64
	Page      int
	Limit     int
}

type MediaFilter struct {
	OwnerID   uint   `form:"ownerId,default=0"`
	MediaType string `form:"mediaType"`
	Status    int    `form:"status,default=-1"`
	Query     string `form:"q"`
	Page      int    `form:"page,default=0"`
	Limit     int    `form:"limit,default=10"`
}

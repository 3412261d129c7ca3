package dto

import "time"

// BusinessResponse định nghĩa response cho business
type BusinessResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Status         int       `json:"status"`
	RevenueBalance float64   `json:"revenueBalance"`
	TotalEarnings  float64   `json:"totalEarnings"`
	TotalSpent     float64   `json:"totalSpent"`
	ConnectActive  bool      `json:"connectActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type UpdateBusinessRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// BusinessStatusRequest định nghĩa request cập nhật trạng thái business
type BusinessStatusRequest struct {
	ID     uint `json:"id" binding:"required"`
	Status int  `json:"status"`
}

type BusinessRevenueResponse struct {
	ID           uint    `json:"id"`
	Date         string  `json:"date"`
	LicenseCount int     `json:"licenseCount"`
	Revenue      float64 `json:"revenue"`
	Business     Actor   `json:"business"`
}

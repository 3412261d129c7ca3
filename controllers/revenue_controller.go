package controllers

import (
	"strconv"
	"strings"
	"time"

	"media/config"
	"media/dto"
	"media/models"
	"media/response"

	"github.com/gin-gonic/gin"
)

// GetTotalRevenue tổng doanh thu nền tảng từ transaction completed
func GetTotalRevenue(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	_, currentRole, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	if currentRole != 1 {
		response.Forbidden(c)
		return
	}

	var totalRevenue float64
	if err := config.DB.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(gross_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		response.ServerError(c)
		return
	}

	var totalCreatorShare float64
	if err := config.DB.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(creator_share), 0)").
		Scan(&totalCreatorShare).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, gin.H{
		"totalRevenue":    totalRevenue,
		"creatorShare":    totalCreatorShare,
		"platformRevenue": totalRevenue - totalCreatorShare,
	})
}

// GetBusinessRevenue doanh thu theo ngày của business hiện tại
func GetBusinessRevenue(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, currentRole, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	businessID := currentBusinessID
	if currentRole == 1 {
		if v := c.Query("businessId"); v != "" {
			id, _ := strconv.Atoi(v)
			businessID = uint(id)
		}
	}

	query := config.DB.Preload("Business").
		Where("business_id = ?", businessID).
		Model(&models.BusinessRevenue{})

	if v := c.Query("fromDate"); v != "" {
		if fromDate, err := time.Parse("2006-01-02", v); err == nil {
			query = query.Where("date >= ?", fromDate)
		}
	}
	if v := c.Query("toDate"); v != "" {
		if toDate, err := time.Parse("2006-01-02", v); err == nil {
			query = query.Where("date <= ?", toDate)
		}
	}

	var revenues []models.BusinessRevenue
	if err := query.Order("date DESC").Find(&revenues).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.BusinessRevenueResponse, 0, len(revenues))
	for _, revenue := range revenues {
		results = append(results, dto.BusinessRevenueResponse{
			ID:           revenue.ID,
			Date:         revenue.Date.Format("2006-01-02"),
			LicenseCount: revenue.LicenseCount,
			Revenue:      revenue.Revenue,
			Business: dto.Actor{
				ID:    revenue.Business.ID,
				Name:  revenue.Business.Name,
				Email: revenue.Business.Email,
			},
		})
	}

	response.Success(c, results)
}

package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"media/config"
	"media/dto"
	"media/models"
	"media/response"
	"media/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type BusinessController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewBusinessController(db *gorm.DB, redisCli *redis.Client) BusinessController {
	return BusinessController{
		DB:    db,
		Redis: redisCli,
	}
}

func toBusinessResponse(business models.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:             business.ID,
		Name:           business.Name,
		Email:          business.Email,
		Status:         business.Status,
		RevenueBalance: business.RevenueBalance,
		TotalEarnings:  business.TotalEarnings,
		TotalSpent:     business.TotalSpent,
		ConnectActive:  business.StripeAccountID != "",
		CreatedAt:      business.CreatedAt,
		UpdatedAt:      business.UpdatedAt,
	}
}

func (b BusinessController) GetBusinesses(c *gin.Context) {
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

	page := 0
	limit := 10
	if v := c.Query("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	name := c.Query("name")
	statusStr := c.Query("status")

	cacheKey := "businesses:all"

	var allBusinesses []models.Business
	if err := services.GetFromRedis(config.Ctx, b.Redis, cacheKey, &allBusinesses); err != nil || len(allBusinesses) == 0 {
		if err := b.DB.Find(&allBusinesses).Error; err != nil {
			response.ServerError(c)
			return
		}
		if err := services.SetToRedis(config.Ctx, b.Redis, cacheKey, allBusinesses, 10*time.Minute); err != nil {
			fmt.Printf("Lỗi khi lưu cache businesses: %v\n", err)
		}
	}

	filtered := make([]models.Business, 0, len(allBusinesses))
	for _, business := range allBusinesses {
		if name != "" && !strings.Contains(strings.ToLower(business.Name), strings.ToLower(name)) {
			continue
		}
		if statusStr != "" {
			status, _ := strconv.Atoi(statusStr)
			if business.Status != status {
				continue
			}
		}
		filtered = append(filtered, business)
	}

	total := len(filtered)
	start := page * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	results := make([]dto.BusinessResponse, 0, end-start)
	for _, business := range filtered[start:end] {
		results = append(results, toBusinessResponse(business))
	}

	response.SuccessWithPagination(c, results, page, limit, total)
}

func (b BusinessController) GetBusinessByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	var business models.Business
	if err := b.DB.First(&business, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	response.Success(c, toBusinessResponse(business))
}

func (b BusinessController) GetProfile(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, _, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	var business models.Business
	if err := b.DB.First(&business, currentBusinessID).Error; err != nil {
		response.NotFound(c)
		return
	}

	response.Success(c, toBusinessResponse(business))
}

func (b BusinessController) UpdateBusiness(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, _, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	var input dto.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var business models.Business
	if err := b.DB.First(&business, currentBusinessID).Error; err != nil {
		response.NotFound(c)
		return
	}

	if input.Name != "" {
		business.Name = input.Name
	}

	if err := b.DB.Save(&business).Error; err != nil {
		response.ServerError(c)
		return
	}

	_ = services.DeleteFromRedis(config.Ctx, b.Redis, "businesses:all")

	response.Success(c, toBusinessResponse(business))
}

func (b BusinessController) ChangeBusinessStatus(c *gin.Context) {
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

	var input dto.BusinessStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := b.DB.Model(&models.Business{}).
		Where("id = ?", input.ID).
		Update("status", input.Status).Error; err != nil {
		response.ServerError(c)
		return
	}

	_ = services.DeleteFromRedis(config.Ctx, b.Redis, "businesses:all")

	response.Success(c, nil)
}

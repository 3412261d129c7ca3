package controllers

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"media/dto"
	"media/models"
	"media/response"
	"media/services"
	"media/services/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type PayoutController struct {
	DB     *gorm.DB
	Payout *services.PayoutService
}

func NewPayoutController(db *gorm.DB, gateway services.StripeGateway) PayoutController {
	return PayoutController{
		DB: db,
		Payout: services.NewPayoutService(services.PayoutServiceOptions{
			DB:      db,
			Gateway: gateway,
			Logger:  logger.NewDefaultLogger(logger.InfoLevel),
		}),
	}
}

// Bỏ dấu viết thường
func removeDiacritics(s string) string {
	t := norm.NFD.String(s)
	var b strings.Builder
	for _, r := range t {
		// Loại bỏ các ký tự dấu (non-spacing marks)
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StartConnectOnboarding bắt đầu onboarding Connect cho business hiện tại
func (ctl PayoutController) StartConnectOnboarding(c *gin.Context) {
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

	result, err := ctl.Payout.StartConnectOnboarding(c.Request.Context(), currentBusinessID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// CreatePayout tạo một lệnh rút tiền mới
func (ctl PayoutController) CreatePayout(c *gin.Context) {
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

	var input dto.CreatePayoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payout, err := ctl.Payout.RequestPayout(c.Request.Context(), currentBusinessID, input.Amount)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, payout)
}

// GetPayoutHistory liệt kê lịch sử rút tiền, lọc theo tên business không dấu
func (ctl PayoutController) GetPayoutHistory(c *gin.Context) {
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

	var filter dto.PayoutHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dbQuery := ctl.DB.Preload("Business").Model(&models.PayoutHistory{})
	if currentRole != 1 {
		dbQuery = dbQuery.Where("business_id = ?", currentBusinessID)
	} else if filter.BusinessID != 0 {
		dbQuery = dbQuery.Where("business_id = ?", filter.BusinessID)
	}
	if filter.Status >= 0 {
		dbQuery = dbQuery.Where("status = ?", filter.Status)
	}
	if filter.FromDate != "" {
		if fromDate, err := time.Parse("2006-01-02", filter.FromDate); err == nil {
			dbQuery = dbQuery.Where("created_at >= ?", fromDate)
		}
	}
	if filter.ToDate != "" {
		if toDate, err := time.Parse("2006-01-02", filter.ToDate); err == nil {
			dbQuery = dbQuery.Where("created_at < ?", toDate.AddDate(0, 0, 1))
		}
	}

	var payouts []models.PayoutHistory
	if err := dbQuery.Find(&payouts).Error; err != nil {
		response.ServerError(c)
		return
	}

	// Lọc theo tên không phân biệt dấu
	if name := c.Query("name"); name != "" {
		needle := removeDiacritics(strings.ToLower(name))
		filtered := payouts[:0]
		for _, payout := range payouts {
			haystack := removeDiacritics(strings.ToLower(payout.Business.Name))
			if strings.Contains(haystack, needle) {
				filtered = append(filtered, payout)
			}
		}
		payouts = filtered
	}

	sort.Slice(payouts, func(i, j int) bool {
		return payouts[i].CreatedAt.After(payouts[j].CreatedAt)
	})

	total := int64(len(payouts))
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	start := filter.Page * limit
	end := start + limit
	if start > len(payouts) {
		start = len(payouts)
	}
	if end > len(payouts) {
		end = len(payouts)
	}

	results := make([]dto.PayoutHistoryResponse, 0, end-start)
	for _, payout := range payouts[start:end] {
		results = append(results, dto.PayoutHistoryResponse{
			ID:        payout.ID,
			Amount:    payout.AmountCents,
			Status:    payout.Status,
			CreatedAt: payout.CreatedAt,
			UpdatedAt: payout.UpdatedAt,
			Reason:    payout.Reason,
			Business: dto.Actor{
				ID:    payout.Business.ID,
				Name:  payout.Business.Name,
				Email: payout.Business.Email,
			},
		})
	}

	response.Success(c, dto.PayoutHistoryListResponse{
		Data:  results,
		Page:  filter.Page,
		Limit: limit,
		Total: total,
	})
}

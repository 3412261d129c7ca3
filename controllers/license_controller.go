package controllers

import (
	"strconv"
	"strings"

	"media/config"
	"media/dto"
	"media/models"
	"media/response"
	"media/services"
	"media/services/logger"
	"media/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type LicenseController struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Checkout *services.CheckoutService
	Refund   *services.RefundService
}

func NewLicenseController(db *gorm.DB, redisCli *redis.Client, gateway services.StripeGateway, m *melody.Melody) LicenseController {
	log := logger.NewDefaultLogger(logger.InfoLevel)
	return LicenseController{
		DB:    db,
		Redis: redisCli,
		Checkout: services.NewCheckoutService(services.CheckoutServiceOptions{
			DB:       db,
			Gateway:  gateway,
			Notifier: notification.NewMelodyService(m),
			Logger:   log,
		}),
		Refund: services.NewRefundService(services.RefundServiceOptions{
			DB:      db,
			Gateway: gateway,
			Logger:  log,
		}),
	}
}

func toTransactionResponse(txn models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           txn.ID,
		Code:         txn.Code,
		Status:       txn.Status,
		PayerID:      txn.PayerID,
		PayeeID:      txn.PayeeID,
		GrossAmount:  txn.GrossAmount,
		CreatorShare: txn.CreatorShare,
		RefundedAt:   txn.RefundedAt,
		CreatedAt:    txn.CreatedAt,
	}
}

// PurchaseLicense mua license cho một media asset
func (ctl LicenseController) PurchaseLicense(c *gin.Context) {
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

	var input dto.PurchaseLicenseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	txn, err := ctl.Checkout.PurchaseLicense(c.Request.Context(), currentBusinessID, input)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Earnings cache của collection không còn đúng sau giao dịch mới
	if input.CollectionID != 0 {
		_ = services.DeleteFromRedis(config.Ctx, ctl.Redis, earningsCacheKey(input.CollectionID))
	}

	response.Success(c, toTransactionResponse(*txn))
}

// RefundTransaction refund một transaction đã completed
func (ctl LicenseController) RefundTransaction(c *gin.Context) {
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

	// Chỉ admin được phép refund
	if currentRole != 1 {
		response.Forbidden(c)
		return
	}

	var input dto.RefundRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := ctl.Refund.ProcessRefund(c.Request.Context(), input.TransactionID, input.Reason)
	if err != nil {
		if svcErr := services.GetServiceError(err); svcErr != nil {
			switch svcErr.Code {
			case services.ErrCodeTransactionNotFound:
				response.NotFound(c)
			case services.ErrCodeInvalidTxnStatus, services.ErrCodeNoPaymentIntent:
				response.BadRequest(c, svcErr.Message)
			default:
				response.ServerError(c)
			}
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTransactions liệt kê transaction của business hiện tại
func (ctl LicenseController) GetTransactions(c *gin.Context) {
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

	page := 0
	limit := 10
	if v := c.Query("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	query := ctl.DB.Model(&models.Transaction{})
	if currentRole != 1 {
		query = query.Where("payer_id = ? OR payee_id = ?", currentBusinessID, currentBusinessID)
	}
	if v := c.Query("status"); v != "" {
		status, _ := strconv.Atoi(v)
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		results = append(results, toTransactionResponse(txn))
	}

	response.SuccessWithPagination(c, results, page, limit, int(total))
}

func (ctl LicenseController) GetTransactionDetail(c *gin.Context) {
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

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	var txn models.Transaction
	if err := ctl.DB.Preload("Payer").Preload("Payee").First(&txn, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	isParty := (txn.PayerID != nil && *txn.PayerID == currentBusinessID) ||
		(txn.PayeeID != nil && *txn.PayeeID == currentBusinessID)
	if !isParty && currentRole != 1 {
		response.Forbidden(c)
		return
	}

	response.Success(c, txn)
}

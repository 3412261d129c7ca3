package controllers

import (
	"strings"

	"media/dto"
	"media/models"
	"media/response"
	"media/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubscriptionController struct {
	DB      *gorm.DB
	Gateway services.StripeGateway
}

func NewSubscriptionController(db *gorm.DB, gateway services.StripeGateway) SubscriptionController {
	return SubscriptionController{
		DB:      db,
		Gateway: gateway,
	}
}

// CreateSubscription đăng ký gói subscription cho business hiện tại.
// Tự tạo Stripe customer nếu chưa có, gắn payment method nếu được gửi kèm.
func (ctl SubscriptionController) CreateSubscription(c *gin.Context) {
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

	var input dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var business models.Business
	if err := ctl.DB.First(&business, currentBusinessID).Error; err != nil {
		response.NotFound(c)
		return
	}

	ctx := c.Request.Context()

	customerID := business.StripeCustomerID
	if customerID == "" {
		customer, err := ctl.Gateway.CreateCustomer(ctx, business.ID, business.Email)
		if err != nil {
			response.FromError(c, err)
			return
		}
		customerID = customer.ID
		if err := ctl.DB.Model(&business).Update("stripe_customer_id", customerID).Error; err != nil {
			response.ServerError(c)
			return
		}
	}

	if input.PaymentMethodID != "" {
		if _, err := ctl.Gateway.CreatePaymentMethod(ctx, input.PaymentMethodID, customerID); err != nil {
			response.FromError(c, err)
			return
		}
	}

	subscription, err := ctl.Gateway.CreateSubscription(ctx, customerID, input.PriceID, map[string]string{
		"businessId": business.Email,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, dto.SubscriptionResponse{
		SubscriptionID: subscription.ID,
		Status:         subscription.Status,
		PriceID:        input.PriceID,
	})
}

// CancelSubscription hủy một subscription đang hoạt động
func (ctl SubscriptionController) CancelSubscription(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if _, _, err := GetBusinessIDFromToken(tokenString); err != nil {
		response.Unauthorized(c)
		return
	}

	subscriptionID := c.Param("id")
	if subscriptionID == "" {
		response.BadRequest(c, "Thiếu subscription ID")
		return
	}

	subscription, err := ctl.Gateway.CancelSubscription(c.Request.Context(), subscriptionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, dto.SubscriptionResponse{
		SubscriptionID: subscription.ID,
		Status:         subscription.Status,
	})
}

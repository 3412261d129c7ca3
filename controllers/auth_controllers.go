package controllers

import (
	"strings"

	"media/config"
	"media/dto"
	"media/models"
	"media/response"
	"media/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input.Email = strings.ToLower(input.Email)

	var business models.Business
	if err := config.DB.Where("email = ?", input.Email).First(&business).Error; err != nil {
		response.BadRequest(c, "Email hoặc mật khẩu không hợp lệ")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(business.Password), []byte(input.Password)); err != nil {
		response.BadRequest(c, "Email hoặc mật khẩu không hợp lệ")
		return
	}

	businessInfo := services.BusinessInfo{
		BusinessId: business.ID,
		Role:       business.Role,
	}

	accessToken, err := services.GenerateToken(businessInfo, 60*24*3, true)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	businessResponse := dto.BusinessLoginResponse{
		BusinessID:     business.ID,
		BusinessName:   business.Name,
		BusinessEmail:  business.Email,
		BusinessStatus: business.Status,
		RevenueBalance: business.RevenueBalance,
		CreatedAt:      business.CreatedAt,
		UpdatedAt:      business.UpdatedAt,
	}

	response.Success(c, gin.H{
		"business_info": businessResponse,
		"accessToken":   accessToken,
	})
}

func Logout(c *gin.Context) {
	cookies := c.Request.Cookies()
	for _, cookie := range cookies {
		c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, cookie.HttpOnly)
	}

	response.Success(c, nil)
}

func RegisterBusiness(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	business, err := services.CreateBusiness(models.Business{
		Name:     input.Name,
		Email:    strings.ToLower(input.Email),
		Password: input.Password,
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"id":    business.ID,
		"email": business.Email,
	})
}

// AuthGoogle đăng nhập bằng Google, tự tạo business nếu email chưa tồn tại
func AuthGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	email, name, err := services.VerifyGoogleIDToken(c.Request.Context(), input.IDToken)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	var business models.Business
	if err := config.DB.Where("email = ?", strings.ToLower(email)).First(&business).Error; err != nil {
		business = models.Business{
			Name:       name,
			Email:      strings.ToLower(email),
			IsVerified: true,
			Status:     1,
		}
		if err := config.DB.Create(&business).Error; err != nil {
			response.ServerError(c)
			return
		}
	}

	businessInfo := services.BusinessInfo{
		BusinessId: business.ID,
		Role:       business.Role,
	}

	accessToken, err := services.GenerateToken(businessInfo, 60*24*3, true)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"business_info": dto.BusinessLoginResponse{
			BusinessID:     business.ID,
			BusinessName:   business.Name,
			BusinessEmail:  business.Email,
			BusinessStatus: business.Status,
			RevenueBalance: business.RevenueBalance,
			CreatedAt:      business.CreatedAt,
			UpdatedAt:      business.UpdatedAt,
		},
		"accessToken": accessToken,
	})
}

// GetBusinessIDFromToken lấy businessID và role từ token
func GetBusinessIDFromToken(tokenString string) (uint, int, error) {
	return services.GetBusinessIDFromToken(tokenString)
}

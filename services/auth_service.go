package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media/config"
	"media/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

type BusinessInfo struct {
	BusinessId uint `json:"businessid"`
	Role       int  `json:"role"`
}

type Claims struct {
	BusinessInfo BusinessInfo `json:"businessinfo"`
	jwt.StandardClaims
}

var secretKey = []byte(config.GetEnv("SECRET_KEY_ACCESS_TOKEN"))
var refreshSecretKey = []byte(config.GetEnv("SECRET_KEY_REFRESH_TOKEN"))

func GenerateToken(businessInfo BusinessInfo, expiryMinutes int, isAccessToken bool) (string, error) {
	claims := &Claims{
		BusinessInfo: businessInfo,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Minute * time.Duration(expiryMinutes)).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	var secretKeyToUse []byte
	if isAccessToken {
		secretKeyToUse = secretKey
	} else {
		secretKeyToUse = refreshSecretKey
	}

	return token.SignedString(secretKeyToUse)
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func GetBusinessByEmail(email string) (models.Business, error) {
	var business models.Business
	result := config.DB.Where("email = ?", email).First(&business)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return business, fmt.Errorf("không tìm thấy business với email %s", email)
	}

	if result.Error != nil {
		return business, result.Error
	}

	return business, nil
}

// CreateBusiness đăng ký business mới, email phải chưa được sử dụng
func CreateBusiness(input models.Business) (models.Business, error) {
	if input.Email == "" || input.Password == "" {
		return models.Business{}, errors.New("không được để trống email, password")
	}

	existing, err := GetBusinessByEmail(input.Email)
	if err == nil {
		return models.Business{}, fmt.Errorf("email %s đã được sử dụng", existing.Email)
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return models.Business{}, err
	}

	business := models.Business{
		Name:       input.Name,
		Email:      input.Email,
		Password:   hashedPassword,
		IsVerified: false,
		Role:       input.Role,
		Status:     1,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	result := config.DB.Create(&business)
	if result.Error != nil {
		return business, result.Error
	}

	return business, nil
}

// VerifyGoogleIDToken xác thực id token của Google, trả về email và tên
func VerifyGoogleIDToken(ctx context.Context, token string) (string, string, error) {
	payload, err := idtoken.Validate(ctx, token, config.GetEnv("GOOGLE_CLIENT_ID"))
	if err != nil {
		return "", "", fmt.Errorf("id token không hợp lệ: %v", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return "", "", errors.New("id token không chứa email")
	}

	return email, name, nil
}

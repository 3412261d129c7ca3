package dto

import "time"

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

type BusinessLoginResponse struct {
	BusinessID     uint      `json:"id"`
	BusinessName   string    `json:"name"`
	BusinessEmail  string    `json:"email"`
	BusinessStatus int       `json:"status"`
	RevenueBalance float64   `json:"revenueBalance"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type GoogleUser struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verifiedEmail"`
	Picture       string `json:"picture"`
}

package services

import (
	"encoding/json"
	"strings"

	"media/errors"

	"github.com/dgrijalva/jwt-go"
)

// GetBusinessIDFromToken lấy businessID và role từ token
func GetBusinessIDFromToken(tokenString string) (uint, int, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Token không hợp lệ", nil)
	}

	// Giải mã phần payload của token
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể giải mã token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể parse token", err)
	}

	// Trích xuất businessID và role từ claims
	businessInfo, ok := claimsMap["businessinfo"].(map[string]interface{})
	if !ok {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy thông tin business trong token", nil)
	}

	businessID, okID := businessInfo["businessid"].(float64)
	if !okID {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy ID business trong token", nil)
	}

	role, okRole := businessInfo["role"].(float64)
	if !okRole {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy role trong token", nil)
	}

	return uint(businessID), int(role), nil
}

// GetIDFromToken lấy businessID từ token
func GetIDFromToken(tokenString string) (uint, error) {
	businessID, _, err := GetBusinessIDFromToken(tokenString)
	return businessID, err
}

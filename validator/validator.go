package validator

import (
	"encoding/json"
	"regexp"

	"media/constants"
	"media/errors"
	"media/models"

	"github.com/go-playground/validator/v10"
)

var structValidate = validator.New()

// ValidateStruct chạy validate tags trên struct, dùng cho input
// không đi qua gin binding
func ValidateStruct(s interface{}) error {
	if err := structValidate.Struct(s); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, err.Error(), err)
	}
	return nil
}

// ValidateBusiness validate thông tin business
func ValidateBusiness(business *models.Business) error {
	if business.Email == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Email không được để trống", nil)
	}

	if !isValidEmail(business.Email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Email không hợp lệ", nil)
	}

	if business.Password == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Mật khẩu không được để trống", nil)
	}

	if len(business.Password) < 6 {
		return errors.NewAppError(errors.ErrCodeValidation, "Mật khẩu phải có ít nhất 6 ký tự", nil)
	}

	return nil
}

// ValidateMediaAsset validate thông tin media asset
func ValidateMediaAsset(asset *models.MediaAsset) error {
	if asset.Title == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tiêu đề không được để trống", nil)
	}

	if asset.MediaType == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Loại media không được để trống", nil)
	}

	if asset.PriceCents < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá license không được âm", nil)
	}

	if asset.OwnerID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID chủ sở hữu không được để trống", nil)
	}

	return nil
}

// ValidateCollection validate thông tin collection, bao gồm mô hình chia doanh thu
func ValidateCollection(collection *models.Collection) error {
	if collection.Name == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên collection không được để trống", nil)
	}

	if collection.PoolType != constants.PoolTypeCompetitive && collection.PoolType != constants.PoolTypeComplementary {
		return errors.NewAppError(errors.ErrCodeInvalidPoolType, "Loại pool không hợp lệ", nil)
	}

	switch collection.SharingSplit {
	case "", constants.SplitEqual, constants.SplitProportional:
	case constants.SplitCustom:
		if len(collection.SharingDistribution) == 0 {
			return errors.NewAppError(errors.ErrCodeInvalidSplit, "Mô hình custom cần sharingDistribution", nil)
		}

		var distribution map[string]float64
		if err := json.Unmarshal(collection.SharingDistribution, &distribution); err != nil {
			return errors.NewAppError(errors.ErrCodeInvalidFormat, "Định dạng sharingDistribution không hợp lệ", err)
		}

		total := 0.0
		for businessID, percent := range distribution {
			if businessID == "" {
				return errors.NewAppError(errors.ErrCodeInvalidSplit, "sharingDistribution chứa businessId rỗng", nil)
			}
			if percent < 0 || percent > 100 {
				return errors.NewAppError(errors.ErrCodeInvalidSplit, "Phần trăm chia phải nằm trong khoảng từ 0 đến 100", nil)
			}
			total += percent
		}
		// Cho phép sai số làm tròn nhỏ
		if total < 99.99 || total > 100.01 {
			return errors.NewAppError(errors.ErrCodeInvalidSplit, "Tổng phần trăm chia phải bằng 100", nil)
		}
	default:
		return errors.NewAppError(errors.ErrCodeInvalidSplit, "Mô hình chia doanh thu không hợp lệ", nil)
	}

	return nil
}

// ValidateAmount validate số tiền
func ValidateAmount(amount int64) error {
	if amount < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền không được âm", nil)
	}
	return nil
}

// ValidateEmail kiểm tra email hợp lệ
func ValidateEmail(email string) error {
	if !isValidEmail(email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Email không hợp lệ", nil)
	}
	return nil
}

// ValidatePassword kiểm tra mật khẩu hợp lệ
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.NewAppError(errors.ErrCodeInvalidPassword, "Mật khẩu phải có ít nhất 8 ký tự", nil)
	}
	return nil
}

// isValidEmail kiểm tra email hợp lệ
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

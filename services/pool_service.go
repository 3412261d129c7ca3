package services

import (
	"context"
	goerrors "errors"
	"math"
	"strconv"

	"media/dto"
	"media/errors"
	"media/models"
	"media/services/logger"

	"gorm.io/gorm"
)

// Số lần thử lại khi version của collection bị đổi giữa chừng
const maxEarningsUpdateAttempts = 3

var errStaleCollection = goerrors.New("collection version đã thay đổi")

// PoolService là bộ máy bookkeeping earnings của collection. Mọi thay đổi
// totals + member earnings đi qua UpdateEarnings, ghi trong một DB
// transaction với optimistic lock trên cột version để hai licensing event
// đồng thời không ghi đè lẫn nhau.
type PoolService struct {
	db     *gorm.DB
	logger logger.Logger
}

type PoolServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewPoolService(opts PoolServiceOptions) *PoolService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PoolService{
		db:     opts.DB,
		logger: log,
	}
}

// findMemberEarning scan tuần tự theo thứ tự insert, so sánh businessId dạng string
func findMemberEarning(entries []models.MemberEarning, businessID string) *models.MemberEarning {
	for i := range entries {
		if entries[i].BusinessID == businessID {
			return &entries[i]
		}
	}
	return nil
}

// validateTransaction kiểm tra theo thứ tự cố định, lỗi đầu tiên thắng.
// Trả về businessId của member nhận earnings.
func (s *PoolService) validateTransaction(collection *models.Collection, txn *models.Transaction) (string, error) {
	if txn == nil {
		return "", errors.NewAppError(errors.ErrCodeValidation, "transaction required", nil)
	}
	if txn.CreatorShare < 0 || math.IsNaN(txn.CreatorShare) || math.IsInf(txn.CreatorShare, 0) {
		return "", errors.NewAppError(errors.ErrCodeValidation, "invalid creatorShare", nil)
	}
	if txn.Metadata.CollectionID == "" {
		return "", errors.NewAppError(errors.ErrCodeValidation, "missing collectionId", nil)
	}
	if txn.Metadata.CollectionID != strconv.FormatUint(uint64(collection.ID), 10) {
		return "", errors.NewAppError(errors.ErrCodeValidation, "collectionId mismatch", nil)
	}

	businessID := ""
	if txn.PayeeID != nil {
		businessID = strconv.FormatUint(uint64(*txn.PayeeID), 10)
	} else if txn.Metadata.BusinessID != "" {
		businessID = txn.Metadata.BusinessID
	}
	if businessID == "" {
		return "", errors.NewAppError(errors.ErrCodeValidation, "missing payee/businessId", nil)
	}
	return businessID, nil
}

func (s *PoolService) loadCollection(ctx context.Context, collectionID uint) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).
		Preload("MemberEarnings", func(db *gorm.DB) *gorm.DB {
			return db.Order("member_earnings.id ASC")
		}).
		First(&collection, collectionID).Error
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "không tìm thấy collection", err)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn collection", err)
	}
	return &collection, nil
}

// applyEarnings ghi một lượt earnings với version check. Totals và member
// entry được ghi trong cùng transaction nên invariant
// totalRevenue == sum(memberEarnings.totalEarned) giữ nguyên sau mỗi lượt.
func (s *PoolService) applyEarnings(ctx context.Context, collection *models.Collection, businessID string, share, contributionPercent float64) error {
	newTotal := Round2(collection.TotalRevenue + share)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Collection{}).
			Where("id = ? AND version = ?", collection.ID, collection.Version).
			Updates(map[string]interface{}{
				"total_revenue":  newTotal,
				"total_licenses": gorm.Expr("total_licenses + 1"),
				"version":        gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "lỗi cập nhật collection", res.Error)
		}
		if res.RowsAffected == 0 {
			return errStaleCollection
		}

		if entry := findMemberEarning(collection.MemberEarnings, businessID); entry != nil {
			updates := map[string]interface{}{
				"total_earned":  Round2(entry.TotalEarned + share),
				"license_count": gorm.Expr("license_count + 1"),
			}
			// contributionPercent chỉ ghi đè khi transaction khẳng định
			// một giá trị dương, còn lại giữ nguyên giá trị cũ
			if contributionPercent > 0 {
				updates["contribution_percent"] = contributionPercent
			}
			if err := tx.Model(&models.MemberEarning{}).
				Where("id = ?", entry.ID).
				Updates(updates).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "lỗi cập nhật member earnings", err)
			}
			return nil
		}

		if contributionPercent < 0 {
			contributionPercent = 0
		}
		entry := models.MemberEarning{
			CollectionID:        collection.ID,
			BusinessID:          businessID,
			TotalEarned:         share,
			LicenseCount:        1,
			ContributionPercent: contributionPercent,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "lỗi tạo member earnings", err)
		}
		return nil
	})
}

// UpdateEarnings áp một transaction hoàn tất vào collection: cộng
// creatorShare vào totalRevenue, tăng totalLicenses và upsert member entry.
// Validation fail thì không có mutation nào xảy ra.
func (s *PoolService) UpdateEarnings(ctx context.Context, collection *models.Collection, txn *models.Transaction) (*models.Collection, error) {
	if collection == nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "collection required", nil)
	}
	businessID, err := s.validateTransaction(collection, txn)
	if err != nil {
		return nil, err
	}

	share := Round2(txn.CreatorShare)
	current := collection
	for attempt := 1; attempt <= maxEarningsUpdateAttempts; attempt++ {
		err := s.applyEarnings(ctx, current, businessID, share, txn.Metadata.ContributionPercent)
		if err == nil {
			return s.loadCollection(ctx, current.ID)
		}
		if !goerrors.Is(err, errStaleCollection) {
			return nil, err
		}

		s.logger.Info("Collection %d bị sửa đồng thời, thử lại lần %d", current.ID, attempt)
		reloaded, loadErr := s.loadCollection(ctx, current.ID)
		if loadErr != nil {
			return nil, loadErr
		}
		current = reloaded
	}

	return nil, errors.NewAppError(errors.ErrCodeVersionConflict, "không thể cập nhật earnings do xung đột đồng thời", nil)
}

// GetPoolEarnings trả về breakdown earnings của collection, chỉ đọc.
func (s *PoolService) GetPoolEarnings(ctx context.Context, collectionID uint) (*dto.PoolEarningsResponse, error) {
	collection, err := s.loadCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	members := make([]dto.MemberEarningResponse, 0, len(collection.MemberEarnings))
	for _, entry := range collection.MemberEarnings {
		members = append(members, dto.MemberEarningResponse{
			BusinessID:          entry.BusinessID,
			TotalEarned:         entry.TotalEarned,
			LicenseCount:        entry.LicenseCount,
			ContributionPercent: entry.ContributionPercent,
		})
	}

	return &dto.PoolEarningsResponse{
		CollectionID:   collection.ID,
		CollectionName: collection.Name,
		TotalRevenue:   collection.TotalRevenue,
		TotalLicenses:  collection.TotalLicenses,
		MemberEarnings: members,
		MemberCount:    len(members),
	}, nil
}

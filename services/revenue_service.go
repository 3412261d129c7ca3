package services

import (
	"fmt"
	"time"

	"media/models"
	"media/services/logger"

	"github.com/olahol/melody"
	"gorm.io/gorm"
)

// RevenueService tổng hợp doanh thu license theo ngày cho từng business.
type RevenueService struct {
	db     *gorm.DB
	logger logger.Logger
}

type RevenueServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewRevenueService(opts RevenueServiceOptions) *RevenueService {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RevenueService{
		db:     opts.DB,
		logger: log,
	}
}

type dailyRevenueRow struct {
	PayeeID      uint
	Revenue      float64
	LicenseCount int
}

// SnapshotDailyRevenue chốt doanh thu ngày hôm trước cho mọi payee có
// transaction completed, mỗi business một dòng BusinessRevenue. Chạy lại
// trong cùng ngày sẽ ghi đè dòng cũ nhờ unique index (business, date).
func (s *RevenueService) SnapshotDailyRevenue(m *melody.Melody) error {
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	from := date
	to := date.AddDate(0, 0, 1)

	var rows []dailyRevenueRow
	err := s.db.Model(&models.Transaction{}).
		Select("payee_id, SUM(creator_share) AS revenue, COUNT(*) AS license_count").
		Where("status = ? AND payee_id IS NOT NULL AND created_at >= ? AND created_at < ?",
			models.TransactionStatusCompleted, from, to).
		Group("payee_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		revenue := models.BusinessRevenue{
			BusinessID:   row.PayeeID,
			Date:         date,
			Revenue:      Round2(row.Revenue),
			LicenseCount: row.LicenseCount,
		}

		err := s.db.Where("business_id = ? AND date = ?", row.PayeeID, date).
			Assign(map[string]interface{}{
				"revenue":       revenue.Revenue,
				"license_count": revenue.LicenseCount,
			}).
			FirstOrCreate(&revenue).Error
		if err != nil {
			s.logger.Error("❌ Lỗi ghi doanh thu ngày cho business %d: %v", row.PayeeID, err)
			continue
		}
	}

	if m != nil && len(rows) > 0 {
		message := fmt.Sprintf("🔔 Đã chốt doanh thu ngày %s cho %d business.", date.Format("2006-01-02"), len(rows))
		if err := m.Broadcast([]byte(message)); err != nil {
			s.logger.Error("❌ Lỗi broadcast thông báo doanh thu: %v", err)
		}
	}

	s.logger.Info("✅ Chốt doanh thu ngày %s: %d business", date.Format("2006-01-02"), len(rows))
	return nil
}

// RevenueServiceAdapter cho phép jobs gọi snapshot mà không import services
type RevenueServiceAdapter struct {
	service *RevenueService
}

func NewRevenueServiceAdapter(service *RevenueService) *RevenueServiceAdapter {
	return &RevenueServiceAdapter{service: service}
}

func (a *RevenueServiceAdapter) SnapshotDailyRevenue(m *melody.Melody) error {
	return a.service.SnapshotDailyRevenue(m)
}

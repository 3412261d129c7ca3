package jobs

import (
	"log"
	"time"

	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// RevenueSnapshotter định nghĩa interface cho việc chốt doanh thu ngày
type RevenueSnapshotter interface {
	SnapshotDailyRevenue(m *melody.Melody) error
}

var revenueSnapshotter RevenueSnapshotter

// SetRevenueSnapshotter thiết lập implementation cho RevenueSnapshotter
func SetRevenueSnapshotter(snapshotter RevenueSnapshotter) {
	revenueSnapshotter = snapshotter
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, m *melody.Melody) error {
	// Cron job chạy lúc 0h mỗi ngày
	_, err := c.AddFunc("0 0 * * *", func() {
		now := time.Now()
		log.Printf("Đang chốt doanh thu ngày lúc: %v", now)
		if revenueSnapshotter == nil {
			log.Printf("Lỗi: RevenueSnapshotter chưa được thiết lập")
			return
		}
		if err := revenueSnapshotter.SnapshotDailyRevenue(m); err != nil {
			log.Printf("Lỗi khi chốt doanh thu ngày: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}

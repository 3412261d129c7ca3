package notification

import (
	"fmt"

	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// EarningsMessageBuilder build thông báo khi một business nhận earnings mới
type EarningsMessageBuilder struct {
	businessID uint
	amount     float64
	mediaTitle string
}

func NewEarningsMessageBuilder(businessID uint, amount float64, mediaTitle string) *EarningsMessageBuilder {
	return &EarningsMessageBuilder{
		businessID: businessID,
		amount:     amount,
		mediaTitle: mediaTitle,
	}
}

func (b *EarningsMessageBuilder) Build() string {
	if b.mediaTitle != "" {
		return fmt.Sprintf("🔔 Business %d đã nhận %.2f từ license \"%s\".", b.businessID, b.amount, b.mediaTitle)
	}
	return fmt.Sprintf("🔔 Business %d đã được cộng %.2f vào tài khoản.", b.businessID, b.amount)
}

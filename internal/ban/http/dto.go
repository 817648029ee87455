package http

import (
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/ban"
)

type BanRequest struct {
	CustomerPhone string     `json:"customer_phone" binding:"required,max=32"`
	Reason        *string    `json:"reason" binding:"omitempty,max=500"`
	BannedUntil   *time.Time `json:"banned_until"`
}

type BanResponse struct {
	ID            string     `json:"id"`
	CustomerPhone string     `json:"customer_phone"`
	Reason        *string    `json:"reason"`
	BannedUntil   *time.Time `json:"banned_until"`
	BannedAt      time.Time  `json:"banned_at"`
}

func NewBanResponse(b *ban.BannedCustomer) BanResponse {
	return BanResponse{
		ID:            b.ID,
		CustomerPhone: b.CustomerPhone,
		Reason:        b.Reason,
		BannedUntil:   b.BannedUntil,
		BannedAt:      b.BannedAt,
	}
}

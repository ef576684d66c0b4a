package entities

import (
	"time"

	"github.com/google/uuid"
)

// Donation is the append-only record of a peer-to-peer coin transfer. Each
// donation produces two ledger entries (sender debit, recipient credit)
// linked to it by ref type DONATION and the donation id.
type Donation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID uuid.UUID `gorm:"index;not null" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"index;not null" json:"to_user_id"`
	PaidCoin   Coin      `gorm:"type:varchar(1);not null" json:"paid_coin"`
	AmountCoin int64     `gorm:"not null" json:"amount_coin"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	FromUser *User `gorm:"foreignKey:FromUserID"`
	ToUser   *User `gorm:"foreignKey:ToUserID"`
}

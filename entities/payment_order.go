package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentOrderPending = "PENDING"
	PaymentOrderPaid    = "PAID"
)

// PaymentOrder is one top-up attempt. It transitions PENDING -> PAID exactly
// once; the transition triggers a single TOPUP credit through the engine.
type PaymentOrder struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `gorm:"index;not null" json:"user_id"`
	OrderCode  string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_code"`
	AmountVnd  int64      `gorm:"not null" json:"amount_vnd"`
	CoinB      int64      `gorm:"not null" json:"coin_b_amount"`
	Status     string     `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	InvoiceURL string     `json:"invoice_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	WithdrawRequested = "REQUESTED"
	WithdrawApproved  = "APPROVED"
	WithdrawPaid      = "PAID"
	WithdrawRejected  = "REJECTED"
	WithdrawCancelled = "CANCELLED"
)

const (
	FeeTypeFlat       = "flat"
	FeeTypePercentage = "percentage"
)

// WithdrawRequest is one payout request. Creating it reserves CoinB on the
// wallet; it is resolved exactly once into one of the four terminal states.
// Fee and net are frozen at request time even if the rule later changes.
type WithdrawRequest struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID               uuid.UUID  `gorm:"index;not null" json:"user_id"`
	CoinB                int64      `gorm:"not null" json:"coin_b_amount"`
	FeeCoinB             int64      `gorm:"not null" json:"fee_coin_b"`
	NetCoinB             int64      `gorm:"not null" json:"net_coin_b"`
	PaymentMethodDetails string     `gorm:"not null" json:"payment_method_details"`
	Status               string     `gorm:"type:varchar(10);not null;default:'REQUESTED'" json:"status"`
	RequestedAt          time.Time  `json:"requested_at"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	AdminID              *uuid.UUID `gorm:"type:uuid" json:"admin_id,omitempty"`

	User  *User `gorm:"foreignKey:UserID"`
	Admin *User `gorm:"foreignKey:AdminID"`
}

// WithdrawRule is the fee policy consulted when a withdrawal is requested.
// At most one rule is active at a time; with no active rule no min/max bound
// is enforced and no fee is charged.
type WithdrawRule struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FeeType  string    `gorm:"type:varchar(10);not null" json:"fee_type"` // flat, percentage
	FeeValue int64     `gorm:"not null" json:"fee_value"`
	MinCoinB int64     `gorm:"not null;default:0" json:"min_withdraw_coin_b"`
	MaxCoinB int64     `gorm:"not null;default:0" json:"max_withdraw_coin_b"` // 0 = unbounded
	Active   bool      `gorm:"not null;default:false" json:"active"`

	Timestamp
}

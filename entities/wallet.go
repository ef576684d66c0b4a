package entities

import (
	"time"

	"github.com/google/uuid"
)

// Coin identifies one of the two wallet currencies. Coin A is earned through
// rewards only; coin B is purchased via payment orders and can be withdrawn.
type Coin string

const (
	CoinA Coin = "A"
	CoinB Coin = "B"
)

// Ledger reasons.
const (
	ReasonTopup        = "TOPUP"
	ReasonSpendChapter = "SPEND_CHAPTER"
	ReasonDonate       = "DONATE"
	ReasonWithdraw     = "WITHDRAW"
	ReasonEarn         = "EARN"
	ReasonReviewReward = "REVIEW_REWARD"
	ReasonAdjust       = "ADJUST"
)

// Wallet holds the current balance snapshot for one user. Rows are created
// lazily on first access and never deleted. ReservedCoinB is coin earmarked
// for in-flight withdrawal requests; balance_coin_b >= reserved_coin_b must
// hold at all times.
type Wallet struct {
	UserID        uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	BalanceCoinA  int64     `gorm:"not null;default:0" json:"balance_coin_a"`
	BalanceCoinB  int64     `gorm:"not null;default:0" json:"balance_coin_b"`
	ReservedCoinB int64     `gorm:"not null;default:0" json:"reserved_coin_b"`
	UpdatedAt     time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID"`
}

// LedgerEntry is the immutable record of a single coin movement. Entries are
// written only by the wallet engine, in the same transaction as the wallet
// update that produced them.
type LedgerEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `gorm:"index;not null;uniqueIndex:idx_ledger_cause" json:"user_id"`
	Coin           Coin      `gorm:"type:varchar(1);not null" json:"coin"`
	Delta          int64     `gorm:"not null" json:"delta"`
	BalanceAfter   int64     `gorm:"not null" json:"balance_after"`
	Reason         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_ledger_cause" json:"reason"`
	RefType        string    `gorm:"type:varchar(20);uniqueIndex:idx_ledger_cause" json:"ref_type"`
	RefID          string    `gorm:"type:varchar(64);uniqueIndex:idx_ledger_cause" json:"ref_id"`
	IdempotencyKey string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"idempotency_key"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}

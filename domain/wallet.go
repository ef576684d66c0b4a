package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetWallet     = "wallet retrieved successfully"
	MessageSuccessGetHistory    = "transaction history retrieved successfully"
	MessageSuccessAdjustBalance = "balance adjusted successfully"
	MessageSuccessRewardCoins   = "coins rewarded successfully"

	MessageFailedGetWallet     = "failed to retrieve wallet"
	MessageFailedGetHistory    = "failed to retrieve transaction history"
	MessageFailedAdjustBalance = "failed to adjust balance"
	MessageFailedRewardCoins   = "failed to reward coins"

	// ErrInsufficientBalance is returned when a debit exceeds the spendable
	// balance for the coin. It is user-visible and not retried.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidCoin         = errors.New("invalid coin type")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

type (
	WalletResponse struct {
		UserID        string `json:"user_id"`
		BalanceCoinA  int64  `json:"balance_coin_a"`
		BalanceCoinB  int64  `json:"balance_coin_b"`
		ReservedCoinB int64  `json:"reserved_coin_b"`
	}

	LedgerEntryResponse struct {
		ID           string    `json:"id"`
		Coin         string    `json:"coin"`
		Delta        int64     `json:"delta"`
		BalanceAfter int64     `json:"balance_after"`
		Reason       string    `json:"reason"`
		Description  string    `json:"description"`
		RefType      string    `json:"ref_type,omitempty"`
		RefID        string    `json:"ref_id,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	AdjustBalanceRequest struct {
		UserID string `json:"user_id" validate:"required,uuid4"`
		Coin   string `json:"coin" validate:"required,oneof=A B"`
		Delta  int64  `json:"delta" validate:"required"`
		Note   string `json:"note"`
	}

	RewardCoinRequest struct {
		UserID string `json:"user_id" validate:"required,uuid4"`
		Amount int64  `json:"amount" validate:"required,min=1"`
		Reason string `json:"reason" validate:"required,oneof=EARN REVIEW_REWARD"`
		RefID  string `json:"ref_id" validate:"required"`
	}
)

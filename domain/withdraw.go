package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRequestWithdraw = "withdrawal requested successfully"
	MessageSuccessCancelWithdraw  = "withdrawal cancelled successfully"
	MessageSuccessGetWithdrawals  = "withdrawals retrieved successfully"
	MessageSuccessListPayouts     = "eligible payouts retrieved successfully"
	MessageSuccessConfirmPayout   = "payout confirmed successfully"
	MessageSuccessRejectPayout    = "payout rejected successfully"

	MessageFailedRequestWithdraw = "failed to request withdrawal"
	MessageFailedCancelWithdraw  = "failed to cancel withdrawal"
	MessageFailedGetWithdrawals  = "failed to retrieve withdrawals"
	MessageFailedListPayouts     = "failed to retrieve eligible payouts"
	MessageFailedConfirmPayout   = "failed to confirm payout"
	MessageFailedRejectPayout    = "failed to reject payout"

	ErrWithdrawNotFound = errors.New("withdraw request not found")
	// ErrAlreadyProcessed is returned when the conditional status update hits
	// zero rows: the request already left REQUESTED. No ledger mutation
	// happens; administrative retries are safe.
	ErrAlreadyProcessed  = errors.New("withdraw request already processed")
	ErrAmountOutOfBounds = errors.New("withdrawal amount outside rule bounds")
	ErrFeeExceedsAmount  = errors.New("fee exceeds withdrawal amount")
)

type (
	RequestWithdrawRequest struct {
		CoinB                int64  `json:"coin_b_amount" validate:"required,min=1"`
		PaymentMethodDetails string `json:"payment_method_details" validate:"required"`
	}

	RequestWithdrawResponse struct {
		RequestID string `json:"request_id"`
		CoinB     int64  `json:"coin_b_amount"`
		FeeCoinB  int64  `json:"fee_coin_b"`
		NetCoinB  int64  `json:"net_coin_b"`
		Status    string `json:"status"`
	}

	ConfirmPayoutRequest struct {
		CashAmount float64 `json:"cash_amount" validate:"required,gt=0"`
	}

	PayoutCandidate struct {
		RequestID            string    `json:"request_id"`
		UserID               string    `json:"user_id"`
		UserEmail            string    `json:"user_email"`
		CoinB                int64     `json:"coin_b_amount"`
		FeeCoinB             int64     `json:"fee_coin_b"`
		NetCoinB             int64     `json:"net_coin_b"`
		PaymentMethodDetails string    `json:"payment_method_details"`
		RequestedAt          time.Time `json:"requested_at"`
	}

	WithdrawResponse struct {
		ID          string     `json:"id"`
		CoinB       int64      `json:"coin_b_amount"`
		FeeCoinB    int64      `json:"fee_coin_b"`
		NetCoinB    int64      `json:"net_coin_b"`
		Status      string     `json:"status"`
		RequestedAt time.Time  `json:"requested_at"`
		PaidAt      *time.Time `json:"paid_at,omitempty"`
	}
)

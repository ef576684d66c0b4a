package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateOrder    = "payment order created successfully"
	MessageSuccessConfirmPayment = "payment confirmed successfully"
	MessageSuccessGetOrders      = "payment orders retrieved successfully"

	MessageFailedCreateOrder    = "failed to create payment order"
	MessageFailedConfirmPayment = "failed to confirm payment"
	MessageFailedGetOrders      = "failed to retrieve payment orders"

	ErrOrderNotFound   = errors.New("payment order not found")
	ErrOrderNotPending = errors.New("payment order is not pending")
	ErrPaymentFailed   = errors.New("payment processing failed")
)

type (
	CreatePaymentOrderRequest struct {
		AmountVnd int64  `json:"amount_vnd" validate:"required,min=1"`
		CoinB     int64  `json:"coin_b_amount" validate:"required,min=1"`
		Email     string `json:"email" validate:"omitempty,email"`
	}

	CreatePaymentOrderResponse struct {
		OrderID    string `json:"order_id"`
		OrderCode  string `json:"order_code"`
		Status     string `json:"status"`
		InvoiceURL string `json:"invoice_url,omitempty"`
	}

	ConfirmPaymentResponse struct {
		OrderID         string `json:"order_id"`
		NewBalanceCoinB int64  `json:"new_balance_coin_b"`
	}

	PaymentOrderResponse struct {
		ID        string     `json:"id"`
		OrderCode string     `json:"order_code"`
		AmountVnd int64      `json:"amount_vnd"`
		CoinB     int64      `json:"coin_b_amount"`
		Status    string     `json:"status"`
		CreatedAt time.Time  `json:"created_at"`
		PaidAt    *time.Time `json:"paid_at,omitempty"`
	}

	MidtransPaymentRequest struct {
		OrderCode string
		Amount    int64
		Email     string
	}

	MidtransNotificationRequest struct {
		OrderID string `json:"order_id" validate:"required"`
	}
)

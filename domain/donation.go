package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessDonate       = "donation sent successfully"
	MessageSuccessGetDonations = "donations retrieved successfully"

	MessageFailedDonate       = "failed to send donation"
	MessageFailedGetDonations = "failed to retrieve donations"

	ErrSelfDonation      = errors.New("cannot donate to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
)

type (
	DonateRequest struct {
		ToUserID string `json:"to_user_id" validate:"required,uuid4"`
		Amount   int64  `json:"amount" validate:"required,min=1"`
		Message  string `json:"message" validate:"max=500"`
	}

	DonationResponse struct {
		ID         string    `json:"id"`
		FromUserID string    `json:"from_user_id"`
		ToUserID   string    `json:"to_user_id"`
		AmountCoin int64     `json:"amount_coin"`
		Message    string    `json:"message,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}
)

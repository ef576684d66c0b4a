package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessUnlockChapter = "chapter unlocked successfully"
	MessageSuccessGetUnlocks    = "unlocked chapters retrieved successfully"
	MessageFailedUnlockChapter  = "failed to unlock chapter"
	MessageFailedGetUnlocks     = "failed to retrieve unlocked chapters"

	ErrChapterNotFound = errors.New("chapter not found")
	ErrChapterFree     = errors.New("chapter does not require unlocking")
)

type (
	UnlockChapterRequest struct {
		ChapterID string `json:"chapter_id" validate:"required,uuid4"`
		PaidCoin  string `json:"paid_coin" validate:"required,oneof=A B"`
	}

	UnlockChapterResponse struct {
		ChapterID       string `json:"chapter_id"`
		AlreadyUnlocked bool   `json:"already_unlocked"`
		CoinCost        int64  `json:"coin_cost"`
	}

	UnlockedChapterResponse struct {
		ChapterID  string    `json:"chapter_id"`
		PaidCoin   string    `json:"paid_coin"`
		CoinCost   int64     `json:"coin_cost"`
		UnlockedAt time.Time `json:"unlocked_at"`
	}
)

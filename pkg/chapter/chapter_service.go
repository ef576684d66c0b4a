package chapter

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/pkg/wallet"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ChapterService interface {
		UnlockChapter(ctx context.Context, req domain.UnlockChapterRequest, userID string) (*domain.UnlockChapterResponse, error)
		GetUnlockedChapters(ctx context.Context, userID string, page, limit int) ([]*domain.UnlockedChapterResponse, int64, error)
	}

	chapterService struct {
		chapterRepository ChapterRepository
		walletService     wallet.WalletService
	}
)

func NewChapterService(chapterRepository ChapterRepository, walletService wallet.WalletService) ChapterService {
	return &chapterService{
		chapterRepository: chapterRepository,
		walletService:     walletService,
	}
}

func (s *chapterService) UnlockChapter(ctx context.Context, req domain.UnlockChapterRequest, userID string) (*domain.UnlockChapterResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	chapterUUID, err := uuid.Parse(req.ChapterID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	ch, err := s.chapterRepository.GetChapterByID(ctx, chapterUUID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, domain.ErrChapterNotFound
	}
	if ch.PriceCoin <= 0 {
		return nil, domain.ErrChapterFree
	}

	// Already paid for: success, nothing is debited again.
	existing, err := s.chapterRepository.GetUnlock(ctx, userUUID, chapterUUID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.UnlockChapterResponse{
			ChapterID:       req.ChapterID,
			AlreadyUnlocked: true,
			CoinCost:        existing.CoinCost,
		}, nil
	}

	paidCoin := entities.Coin(req.PaidCoin)

	// The debit and the unlock row commit together; neither can exist
	// without the other. A concurrent duplicate serializes on the wallet
	// lock inside ApplyDeltaTx, its debit is absorbed by the ledger cause
	// dedupe, and the re-read below then finds the winner's unlock row.
	alreadyUnlocked := false
	coinCost := ch.PriceCoin
	err = s.walletService.WithTransaction(ctx, func(tx *gorm.DB) error {
		_, err := s.walletService.ApplyDeltaTx(tx, wallet.ApplyDeltaRequest{
			UserID:         userUUID,
			Coin:           paidCoin,
			Delta:          -ch.PriceCoin,
			Reason:         entities.ReasonSpendChapter,
			RefType:        "CHAPTER",
			RefID:          chapterUUID.String(),
			IdempotencyKey: fmt.Sprintf("CHAPTER_UNLOCK:%s:%s", userUUID, chapterUUID),
		})
		if err != nil {
			return err
		}

		raceWinner, err := s.chapterRepository.GetUnlockTx(tx, userUUID, chapterUUID)
		if err != nil {
			return err
		}
		if raceWinner != nil {
			alreadyUnlocked = true
			coinCost = raceWinner.CoinCost
			return nil
		}

		return s.chapterRepository.CreateUnlockTx(tx, &entities.ChapterUnlock{
			ID:        uuid.New(),
			UserID:    userUUID,
			ChapterID: chapterUUID,
			PaidCoin:  paidCoin,
			CoinCost:  ch.PriceCoin,
		})
	})
	if err != nil {
		return nil, err
	}

	return &domain.UnlockChapterResponse{
		ChapterID:       req.ChapterID,
		AlreadyUnlocked: alreadyUnlocked,
		CoinCost:        coinCost,
	}, nil
}

func (s *chapterService) GetUnlockedChapters(ctx context.Context, userID string, page, limit int) ([]*domain.UnlockedChapterResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	unlocks, count, err := s.chapterRepository.GetUnlocksByUser(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.UnlockedChapterResponse, 0, len(unlocks))
	for _, u := range unlocks {
		result = append(result, &domain.UnlockedChapterResponse{
			ChapterID:  u.ChapterID.String(),
			PaidCoin:   string(u.PaidCoin),
			CoinCost:   u.CoinCost,
			UnlockedAt: u.CreatedAt,
		})
	}

	return result, count, nil
}

package chapter

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"NovelNest-Backend/pkg/wallet"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockChapterRepository is a mock implementation of ChapterRepository
type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) GetChapterByID(ctx context.Context, id uuid.UUID) (*entities.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Chapter), args.Error(1)
}

func (m *MockChapterRepository) GetUnlock(ctx context.Context, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error) {
	args := m.Called(ctx, userID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChapterUnlock), args.Error(1)
}

func (m *MockChapterRepository) GetUnlockTx(tx *gorm.DB, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error) {
	args := m.Called(tx, userID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChapterUnlock), args.Error(1)
}

func (m *MockChapterRepository) CreateUnlockTx(tx *gorm.DB, unlock *entities.ChapterUnlock) error {
	args := m.Called(tx, unlock)
	return args.Error(0)
}

func (m *MockChapterRepository) GetUnlocksByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.ChapterUnlock, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.ChapterUnlock), args.Get(1).(int64), args.Error(2)
}

// MockWalletService is a mock implementation of wallet.WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) ApplyDelta(ctx context.Context, req wallet.ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockWalletService) ApplyDeltaTx(tx *gorm.DB, req wallet.ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	args := m.Called(tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockWalletService) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockWalletService) ReserveCoinBTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletService) ReleaseReserveTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletResponse), args.Error(1)
}

func (m *MockWalletService) GetTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.LedgerEntryResponse, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.LedgerEntryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) RewardCoins(ctx context.Context, req domain.RewardCoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWalletService) AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (*domain.WalletResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletResponse), args.Error(1)
}

func TestService_UnlockChapter(t *testing.T) {
	userID := uuid.New()
	chapterID := uuid.New()

	paidChapter := &entities.Chapter{
		ID:        chapterID,
		PriceCoin: 20,
	}

	t.Run("unlock debits once and records the unlock", func(t *testing.T) {
		mockRepo := new(MockChapterRepository)
		mockWallet := new(MockWalletService)

		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(paidChapter, nil)
		mockRepo.On("GetUnlock", mock.Anything, userID, chapterID).Return(nil, nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockWallet.On("ApplyDeltaTx", mock.Anything, mock.MatchedBy(func(req wallet.ApplyDeltaRequest) bool {
			return req.Delta == -20 &&
				req.Coin == entities.CoinA &&
				req.Reason == entities.ReasonSpendChapter &&
				req.RefID == chapterID.String()
		})).Return(&entities.LedgerEntry{BalanceAfter: 80}, nil)
		mockRepo.On("GetUnlockTx", mock.Anything, userID, chapterID).Return(nil, nil)
		mockRepo.On("CreateUnlockTx", mock.Anything, mock.MatchedBy(func(u *entities.ChapterUnlock) bool {
			return u.UserID == userID && u.ChapterID == chapterID && u.CoinCost == 20
		})).Return(nil)

		service := NewChapterService(mockRepo, mockWallet)
		resp, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.NoError(t, err)
		assert.False(t, resp.AlreadyUnlocked)
		assert.Equal(t, int64(20), resp.CoinCost)
		mockRepo.AssertExpectations(t)
		mockWallet.AssertExpectations(t)
	})

	t.Run("repeat unlock succeeds without a second debit", func(t *testing.T) {
		mockRepo := new(MockChapterRepository)
		mockWallet := new(MockWalletService)

		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(paidChapter, nil)
		mockRepo.On("GetUnlock", mock.Anything, userID, chapterID).Return(&entities.ChapterUnlock{
			UserID:    userID,
			ChapterID: chapterID,
			CoinCost:  20,
		}, nil)

		service := NewChapterService(mockRepo, mockWallet)
		resp, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.NoError(t, err)
		assert.True(t, resp.AlreadyUnlocked)
		assert.Equal(t, int64(20), resp.CoinCost)
		mockWallet.AssertNotCalled(t, "ApplyDeltaTx", mock.Anything, mock.Anything)
	})

	t.Run("losing a concurrent race reads as already unlocked", func(t *testing.T) {
		// The pre-check misses, the debit is absorbed by the ledger dedupe,
		// and the in-transaction re-read finds the winner's unlock row.
		mockRepo := new(MockChapterRepository)
		mockWallet := new(MockWalletService)

		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(paidChapter, nil)
		mockRepo.On("GetUnlock", mock.Anything, userID, chapterID).Return(nil, nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockWallet.On("ApplyDeltaTx", mock.Anything, mock.Anything).
			Return(&entities.LedgerEntry{Delta: -20, BalanceAfter: 80}, nil)
		mockRepo.On("GetUnlockTx", mock.Anything, userID, chapterID).Return(&entities.ChapterUnlock{
			UserID:    userID,
			ChapterID: chapterID,
			CoinCost:  20,
		}, nil)

		service := NewChapterService(mockRepo, mockWallet)
		resp, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.NoError(t, err)
		assert.True(t, resp.AlreadyUnlocked)
		assert.Equal(t, int64(20), resp.CoinCost)
		mockRepo.AssertNotCalled(t, "CreateUnlockTx", mock.Anything, mock.Anything)
	})

	t.Run("free chapter needs no unlock", func(t *testing.T) {
		mockRepo := new(MockChapterRepository)
		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(&entities.Chapter{
			ID:        chapterID,
			PriceCoin: 0,
		}, nil)

		service := NewChapterService(mockRepo, new(MockWalletService))
		_, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.ErrorIs(t, err, domain.ErrChapterFree)
	})

	t.Run("insufficient balance leaves no unlock row", func(t *testing.T) {
		mockRepo := new(MockChapterRepository)
		mockWallet := new(MockWalletService)

		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(paidChapter, nil)
		mockRepo.On("GetUnlock", mock.Anything, userID, chapterID).Return(nil, nil)
		mockWallet.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockWallet.On("ApplyDeltaTx", mock.Anything, mock.Anything).
			Return(nil, domain.ErrInsufficientBalance)

		service := NewChapterService(mockRepo, mockWallet)
		_, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		mockRepo.AssertNotCalled(t, "CreateUnlockTx", mock.Anything, mock.Anything)
	})

	t.Run("unknown chapter", func(t *testing.T) {
		mockRepo := new(MockChapterRepository)
		mockRepo.On("GetChapterByID", mock.Anything, chapterID).Return(nil, nil)

		service := NewChapterService(mockRepo, new(MockWalletService))
		_, err := service.UnlockChapter(context.Background(), domain.UnlockChapterRequest{
			ChapterID: chapterID.String(),
			PaidCoin:  "A",
		}, userID.String())

		assert.ErrorIs(t, err, domain.ErrChapterNotFound)
	})
}

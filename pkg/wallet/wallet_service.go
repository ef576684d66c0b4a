package wallet

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// ApplyDeltaRequest describes one coin movement. The idempotency key must
	// be unique per logical operation (e.g. "CHAPTER_UNLOCK:{user}:{chapter}")
	// so retries are safe no-ops.
	ApplyDeltaRequest struct {
		UserID         uuid.UUID
		Coin           entities.Coin
		Delta          int64
		Reason         string
		RefType        string
		RefID          string
		IdempotencyKey string
	}

	WalletService interface {
		// ApplyDelta is the only primitive that mutates a wallet balance.
		// Exactly one ledger entry is ever created per idempotency key; a
		// duplicate call returns the prior entry and changes nothing.
		ApplyDelta(ctx context.Context, req ApplyDeltaRequest) (*entities.LedgerEntry, error)
		// ApplyDeltaTx is ApplyDelta composed into a caller-owned transaction
		// so a debit and its business row commit or roll back together.
		ApplyDeltaTx(tx *gorm.DB, req ApplyDeltaRequest) (*entities.LedgerEntry, error)
		WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		// ReserveCoinBTx moves spendable coin B into the reserved bucket
		// (an earmark, not a debit — no ledger entry is written).
		ReserveCoinBTx(tx *gorm.DB, userID uuid.UUID, amount int64) error
		// ReleaseReserveTx returns reserved coin B to the spendable bucket,
		// used when a withdrawal is cancelled or rejected, and just before
		// the payout debit inside the same transaction.
		ReleaseReserveTx(tx *gorm.DB, userID uuid.UUID, amount int64) error

		GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error)
		GetTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.LedgerEntryResponse, int64, error)
		RewardCoins(ctx context.Context, req domain.RewardCoinRequest) error
		AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (*domain.WalletResponse, error)
	}

	walletService struct {
		walletRepository WalletRepository
	}
)

func NewWalletService(walletRepository WalletRepository) WalletService {
	return &walletService{
		walletRepository: walletRepository,
	}
}

func (s *walletService) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.walletRepository.WithTransaction(ctx, fn)
}

func (s *walletService) ApplyDelta(ctx context.Context, req ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry
	err := s.walletRepository.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		entry, err = s.ApplyDeltaTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *walletService) ApplyDeltaTx(tx *gorm.DB, req ApplyDeltaRequest) (*entities.LedgerEntry, error) {
	if req.Coin != entities.CoinA && req.Coin != entities.CoinB {
		return nil, domain.ErrInvalidCoin
	}
	if req.Delta == 0 {
		return nil, domain.ErrInvalidAmount
	}

	// The wallet lock comes before the dedupe reads. Concurrent calls with
	// the same key serialize here, and the loser's reads then see the
	// winner's committed entry instead of racing into the unique index.
	w, err := s.walletRepository.LockWalletTx(tx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Idempotent retry: the key already produced an entry, return it as the
	// original success result.
	if prior, err := s.walletRepository.FindByIdempotencyKeyTx(tx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if prior != nil {
		return prior, nil
	}

	// Second guard: a differently-keyed call for the same cause is also a
	// no-op.
	if prior, err := s.walletRepository.FindByCauseTx(tx, req.UserID, req.RefType, req.RefID, req.Reason); err != nil {
		return nil, err
	} else if prior != nil {
		return prior, nil
	}

	var balanceAfter int64
	switch req.Coin {
	case entities.CoinA:
		if req.Delta < 0 && w.BalanceCoinA+req.Delta < 0 {
			return nil, domain.ErrInsufficientBalance
		}
		w.BalanceCoinA += req.Delta
		balanceAfter = w.BalanceCoinA
	case entities.CoinB:
		// Reserved coin is not spendable; balance_coin_b >= reserved_coin_b
		// must survive every debit. The withdrawal payout path releases the
		// reservation before debiting inside the same transaction.
		if req.Delta < 0 && w.BalanceCoinB-w.ReservedCoinB+req.Delta < 0 {
			return nil, domain.ErrInsufficientBalance
		}
		w.BalanceCoinB += req.Delta
		balanceAfter = w.BalanceCoinB
	}

	if err := s.walletRepository.UpdateBalancesTx(tx, w); err != nil {
		return nil, err
	}

	entry := &entities.LedgerEntry{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Coin:           req.Coin,
		Delta:          req.Delta,
		BalanceAfter:   balanceAfter,
		Reason:         req.Reason,
		RefType:        req.RefType,
		RefID:          req.RefID,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := s.walletRepository.InsertLedgerTx(tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *walletService) ReserveCoinBTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	w, err := s.walletRepository.LockWalletTx(tx, userID)
	if err != nil {
		return err
	}
	if w.BalanceCoinB-w.ReservedCoinB < amount {
		return domain.ErrInsufficientBalance
	}

	w.ReservedCoinB += amount
	return s.walletRepository.UpdateBalancesTx(tx, w)
}

func (s *walletService) ReleaseReserveTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	w, err := s.walletRepository.LockWalletTx(tx, userID)
	if err != nil {
		return err
	}
	if w.ReservedCoinB < amount {
		return domain.ErrInsufficientBalance
	}

	w.ReservedCoinB -= amount
	return s.walletRepository.UpdateBalancesTx(tx, w)
}

func (s *walletService) GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	w, err := s.walletRepository.GetWallet(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	return &domain.WalletResponse{
		UserID:        w.UserID.String(),
		BalanceCoinA:  w.BalanceCoinA,
		BalanceCoinB:  w.BalanceCoinB,
		ReservedCoinB: w.ReservedCoinB,
	}, nil
}

func (s *walletService) GetTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.LedgerEntryResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	entries, count, err := s.walletRepository.GetLedgerByUser(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, &domain.LedgerEntryResponse{
			ID:           e.ID.String(),
			Coin:         string(e.Coin),
			Delta:        e.Delta,
			BalanceAfter: e.BalanceAfter,
			Reason:       e.Reason,
			Description:  describeReason(e.Reason),
			RefType:      e.RefType,
			RefID:        e.RefID,
			CreatedAt:    e.CreatedAt,
		})
	}

	return result, count, nil
}

func (s *walletService) RewardCoins(ctx context.Context, req domain.RewardCoinRequest) error {
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return domain.ErrParseUUID
	}

	_, err = s.ApplyDelta(ctx, ApplyDeltaRequest{
		UserID:         userUUID,
		Coin:           entities.CoinA,
		Delta:          req.Amount,
		Reason:         req.Reason,
		RefType:        "REWARD",
		RefID:          req.RefID,
		IdempotencyKey: "REWARD:" + req.UserID + ":" + req.RefID,
	})
	return err
}

func (s *walletService) AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (*domain.WalletResponse, error) {
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	adjustID := uuid.New().String()
	_, err = s.ApplyDelta(ctx, ApplyDeltaRequest{
		UserID:         userUUID,
		Coin:           entities.Coin(req.Coin),
		Delta:          req.Delta,
		Reason:         entities.ReasonAdjust,
		RefType:        "ADJUST",
		RefID:          adjustID,
		IdempotencyKey: "ADJUST:" + adjustID,
	})
	if err != nil {
		return nil, err
	}

	return s.GetWallet(ctx, req.UserID)
}

// describeReason turns a ledger reason into the human-readable history line.
func describeReason(reason string) string {
	switch reason {
	case entities.ReasonTopup:
		return "Coin top-up"
	case entities.ReasonSpendChapter:
		return "Chapter purchase"
	case entities.ReasonDonate:
		return "Donation"
	case entities.ReasonWithdraw:
		return "Withdrawal payout"
	case entities.ReasonEarn:
		return "Earning reward"
	case entities.ReasonReviewReward:
		return "Review reward"
	case entities.ReasonAdjust:
		return "Balance adjustment"
	default:
		return reason
	}
}

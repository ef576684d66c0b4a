package wallet

import (
	"NovelNest-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	WalletRepository interface {
		WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		// GetWallet creates the wallet row on first access (zero balances)
		// and returns the current snapshot without locking it.
		GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)

		// LockWalletTx upserts the wallet row if absent and reads it under a
		// row-level exclusive lock. All wallet mutation goes through this
		// lock, so operations on the same user serialize.
		LockWalletTx(tx *gorm.DB, userID uuid.UUID) (*entities.Wallet, error)
		UpdateBalancesTx(tx *gorm.DB, w *entities.Wallet) error

		FindByIdempotencyKeyTx(tx *gorm.DB, key string) (*entities.LedgerEntry, error)
		FindByCauseTx(tx *gorm.DB, userID uuid.UUID, refType, refID, reason string) (*entities.LedgerEntry, error)
		InsertLedgerTx(tx *gorm.DB, entry *entities.LedgerEntry) error

		GetLedgerByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.LedgerEntry, int64, error)
	}

	walletRepository struct {
		db *gorm.DB
	}
)

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *walletRepository) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	if err := r.db.WithContext(ctx).Exec(
		`INSERT INTO wallets (user_id, balance_coin_a, balance_coin_b, reserved_coin_b, updated_at)
		 VALUES (?, 0, 0, 0, NOW())
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	).Error; err != nil {
		return nil, err
	}

	var w entities.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) LockWalletTx(tx *gorm.DB, userID uuid.UUID) (*entities.Wallet, error) {
	if err := tx.Exec(
		`INSERT INTO wallets (user_id, balance_coin_a, balance_coin_b, reserved_coin_b, updated_at)
		 VALUES (?, 0, 0, 0, NOW())
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	).Error; err != nil {
		return nil, err
	}

	var w entities.Wallet
	if err := tx.Raw(
		`SELECT user_id, balance_coin_a, balance_coin_b, reserved_coin_b, updated_at
		 FROM wallets
		 WHERE user_id = ?
		 FOR UPDATE`,
		userID,
	).Scan(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) UpdateBalancesTx(tx *gorm.DB, w *entities.Wallet) error {
	return tx.Exec(
		`UPDATE wallets
		 SET balance_coin_a = ?, balance_coin_b = ?, reserved_coin_b = ?, updated_at = NOW()
		 WHERE user_id = ?`,
		w.BalanceCoinA, w.BalanceCoinB, w.ReservedCoinB, w.UserID,
	).Error
}

func (r *walletRepository) FindByIdempotencyKeyTx(tx *gorm.DB, key string) (*entities.LedgerEntry, error) {
	var entry entities.LedgerEntry
	if err := tx.Where("idempotency_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *walletRepository) FindByCauseTx(tx *gorm.DB, userID uuid.UUID, refType, refID, reason string) (*entities.LedgerEntry, error) {
	var entry entities.LedgerEntry
	if err := tx.
		Where("user_id = ? AND ref_type = ? AND ref_id = ? AND reason = ?", userID, refType, refID, reason).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *walletRepository) InsertLedgerTx(tx *gorm.DB, entry *entities.LedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *walletRepository) GetLedgerByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.LedgerEntry, int64, error) {
	var entries []*entities.LedgerEntry
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}

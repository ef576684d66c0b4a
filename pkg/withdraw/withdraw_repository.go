package withdraw

import (
	"NovelNest-Backend/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	WithdrawRepository interface {
		GetActiveRule(ctx context.Context) (*entities.WithdrawRule, error)
		CreateRequestTx(tx *gorm.DB, request *entities.WithdrawRequest) error
		GetRequestByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawRequest, error)
		GetRequestsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.WithdrawRequest, int64, error)
		ListRequested(ctx context.Context) ([]*entities.WithdrawRequest, error)

		// ResolveTx moves a request out of REQUESTED with a conditional
		// update. A false return means zero rows matched: the request was
		// already resolved by a concurrent call. This is the idempotency
		// boundary for administrative retries.
		ResolveTx(tx *gorm.DB, id uuid.UUID, status string, adminID *uuid.UUID, paidAt *time.Time) (bool, error)
	}

	withdrawRepository struct {
		db *gorm.DB
	}
)

func NewWithdrawRepository(db *gorm.DB) WithdrawRepository {
	return &withdrawRepository{
		db: db,
	}
}

func (r *withdrawRepository) GetActiveRule(ctx context.Context) (*entities.WithdrawRule, error) {
	var rule entities.WithdrawRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *withdrawRepository) CreateRequestTx(tx *gorm.DB, request *entities.WithdrawRequest) error {
	return tx.Create(request).Error
}

func (r *withdrawRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawRequest, error) {
	var request entities.WithdrawRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *withdrawRepository) GetRequestsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.WithdrawRequest, int64, error) {
	var requests []*entities.WithdrawRequest
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.WithdrawRequest{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, count, nil
}

func (r *withdrawRepository) ListRequested(ctx context.Context) ([]*entities.WithdrawRequest, error) {
	var requests []*entities.WithdrawRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", entities.WithdrawRequested).
		Order("requested_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *withdrawRepository) ResolveTx(tx *gorm.DB, id uuid.UUID, status string, adminID *uuid.UUID, paidAt *time.Time) (bool, error) {
	result := tx.Exec(
		`UPDATE withdraw_requests
		 SET status = ?, admin_id = ?, paid_at = ?
		 WHERE id = ? AND status = ?`,
		status, adminID, paidAt, id, entities.WithdrawRequested,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

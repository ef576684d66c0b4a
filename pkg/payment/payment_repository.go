package payment

import (
	"NovelNest-Backend/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PaymentRepository interface {
		CreateOrder(ctx context.Context, order *entities.PaymentOrder) error
		GetOrderByID(ctx context.Context, id uuid.UUID) (*entities.PaymentOrder, error)
		GetOrderByCode(ctx context.Context, code string) (*entities.PaymentOrder, error)
		GetOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.PaymentOrder, int64, error)

		// MarkPaidTx flips PENDING -> PAID with a conditional update; the
		// returned flag is false when zero rows matched, i.e. the order was
		// already paid or does not belong to the user.
		MarkPaidTx(tx *gorm.DB, orderID, userID uuid.UUID) (bool, error)
	}

	paymentRepository struct {
		db *gorm.DB
	}
)

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

func (r *paymentRepository) CreateOrder(ctx context.Context, order *entities.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *paymentRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*entities.PaymentOrder, error) {
	var order entities.PaymentOrder
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) GetOrderByCode(ctx context.Context, code string) (*entities.PaymentOrder, error) {
	var order entities.PaymentOrder
	if err := r.db.WithContext(ctx).
		Where("order_code = ?", code).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) GetOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.PaymentOrder, int64, error) {
	var orders []*entities.PaymentOrder
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.PaymentOrder{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *paymentRepository) MarkPaidTx(tx *gorm.DB, orderID, userID uuid.UUID) (bool, error) {
	result := tx.Exec(
		`UPDATE payment_orders
		 SET status = ?, paid_at = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		entities.PaymentOrderPaid, time.Now(), orderID, userID, entities.PaymentOrderPending,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

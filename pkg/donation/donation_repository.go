package donation

import (
	"NovelNest-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationRepository interface {
		CreateDonationTx(tx *gorm.DB, donation *entities.Donation) error
		GetDonationsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Donation, int64, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{
		db: db,
	}
}

func (r *donationRepository) CreateDonationTx(tx *gorm.DB, donation *entities.Donation) error {
	return tx.Create(donation).Error
}

func (r *donationRepository) GetDonationsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Donation, int64, error) {
	var donations []*entities.Donation
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

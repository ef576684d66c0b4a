package chapter

import (
	"NovelNest-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ChapterRepository interface {
		GetChapterByID(ctx context.Context, id uuid.UUID) (*entities.Chapter, error)
		GetUnlock(ctx context.Context, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error)
		GetUnlockTx(tx *gorm.DB, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error)
		CreateUnlockTx(tx *gorm.DB, unlock *entities.ChapterUnlock) error
		GetUnlocksByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.ChapterUnlock, int64, error)
	}

	chapterRepository struct {
		db *gorm.DB
	}
)

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{
		db: db,
	}
}

func (r *chapterRepository) GetChapterByID(ctx context.Context, id uuid.UUID) (*entities.Chapter, error) {
	var ch entities.Chapter
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ch, nil
}

func (r *chapterRepository) GetUnlock(ctx context.Context, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error) {
	var unlock entities.ChapterUnlock
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&unlock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unlock, nil
}

func (r *chapterRepository) GetUnlockTx(tx *gorm.DB, userID, chapterID uuid.UUID) (*entities.ChapterUnlock, error) {
	var unlock entities.ChapterUnlock
	if err := tx.
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&unlock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unlock, nil
}

func (r *chapterRepository) CreateUnlockTx(tx *gorm.DB, unlock *entities.ChapterUnlock) error {
	return tx.Create(unlock).Error
}

func (r *chapterRepository) GetUnlocksByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.ChapterUnlock, int64, error) {
	var unlocks []*entities.ChapterUnlock
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.ChapterUnlock{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&unlocks).Error; err != nil {
		return nil, 0, err
	}

	return unlocks, count, nil
}

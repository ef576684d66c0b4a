package entities

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID uuid.UUID `gorm:"index;not null" json:"author_id"`
	Title    string    `json:"title"`

	Author   *User      `gorm:"foreignKey:AuthorID"`
	Chapters []*Chapter `gorm:"foreignKey:StoryID"`
	Timestamp
}

type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	StoryID   uuid.UUID `gorm:"index;not null" json:"story_id"`
	Title     string    `json:"title"`
	Number    int       `json:"number"`
	PriceCoin int64     `gorm:"not null;default:0" json:"price_coin"` // 0 = free chapter

	Story *Story `gorm:"foreignKey:StoryID"`
	Timestamp
}

// ChapterUnlock records a paid unlock. The unique (user, chapter) pair makes
// a chapter purchasable at most once per user.
type ChapterUnlock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_chapter" json:"user_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_chapter" json:"chapter_id"`
	PaidCoin  Coin      `gorm:"type:varchar(1);not null" json:"paid_coin"`
	CoinCost  int64     `gorm:"not null" json:"coin_cost"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID"`
}

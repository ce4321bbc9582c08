package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// At most one active (IsDeleted=false) bookmark may exist per (user, deck)
// pair; the check lives in the bookmark controller, not the schema. Removed
// bookmarks are soft-deleted and a later re-add inserts a fresh row.
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DeckID    uuid.UUID `gorm:"type:uuid;not null;index" json:"deck_id"`
	Deck      Deck      `gorm:"constraint:OnDelete:CASCADE;" json:"deck,omitempty"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

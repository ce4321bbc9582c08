package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flashcard rows are tagged with the deck version that wrote them. The
// current set of a deck is the rows whose Version matches the deck's
// Version; Position keeps the order the cards were submitted in.
type Flashcard struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeckID   uuid.UUID `gorm:"type:uuid;not null;index" json:"deck_id"`
	Front    string    `gorm:"size:150;not null" json:"front"`
	Back     string    `gorm:"size:150;not null" json:"back"`
	Version  int       `gorm:"not null;default:1" json:"-"`
	Position int       `gorm:"not null;default:0" json:"-"`
}

func (f *Flashcard) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

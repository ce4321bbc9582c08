package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/models"
	"github.com/vnkhanh/flashdeck-backend/utils"
)

// DeckContextKey is where the ownership guards stash the loaded deck so the
// handler does not fetch it twice.
const DeckContextKey = "deck"

// loadActiveDeck resolves the :id route param to a non-deleted deck.
// Existence is always checked before ownership, so a missing or soft-deleted
// deck yields 404 no matter who asks.
func loadActiveDeck(c *gin.Context, db *gorm.DB) (*models.Deck, bool) {
	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.AbortError(c, http.StatusNotFound, "deck not found")
		return nil, false
	}

	var deck models.Deck
	if err := db.Where("id = ? AND is_deleted = ?", deckID, false).First(&deck).Error; err != nil {
		utils.AbortError(c, http.StatusNotFound, "deck not found")
		return nil, false
	}
	return &deck, true
}

// RequireDeckCreator admits only the deck's author. Runs after RequireAuth.
func RequireDeckCreator(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deck, ok := loadActiveDeck(c, db)
		if !ok {
			return
		}

		if deck.AuthorID.String() != c.GetString("user_id") {
			utils.AbortError(c, http.StatusForbidden, "not the deck creator")
			return
		}

		c.Set(DeckContextKey, deck)
		c.Next()
	}
}

// RequireNotDeckCreator admits everyone except the deck's author. Runs after
// RequireAuth.
func RequireNotDeckCreator(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deck, ok := loadActiveDeck(c, db)
		if !ok {
			return
		}

		if deck.AuthorID.String() == c.GetString("user_id") {
			utils.AbortError(c, http.StatusForbidden, "deck creator not allowed")
			return
		}

		c.Set(DeckContextKey, deck)
		c.Next()
	}
}

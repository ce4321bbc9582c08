package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/middleware"
	"github.com/vnkhanh/flashdeck-backend/models"
	"github.com/vnkhanh/flashdeck-backend/utils"
)

// External sort field names accepted by the listing endpoints. The first
// entry doubles as the default.
var deckSortFields = []string{"title", "createdAt", "updatedAt"}

var deckSortColumns = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// ====== INPUT STRUCTS ======
type FlashcardInput struct {
	Front string `json:"front" validate:"required,min=1,max=150"`
	Back  string `json:"back" validate:"required,min=1,max=150"`
}

type DeckInput struct {
	Title       string           `json:"title" validate:"required,min=5,max=200"`
	Description string           `json:"description" validate:"max=500"`
	Flashcards  []FlashcardInput `json:"flashcards" validate:"required,min=1,dive"`
}

// ====== RESPONSE STRUCTS ======
type FlashcardOutput struct {
	ID    uuid.UUID `json:"id"`
	Front string    `json:"front"`
	Back  string    `json:"back"`
}

type DeckSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AuthorID       uuid.UUID `json:"author_id"`
	FlashcardCount int64     `json:"flashcard_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func buildFlashcards(inputs []FlashcardInput, deckID uuid.UUID, version int) []models.Flashcard {
	cards := make([]models.Flashcard, 0, len(inputs))
	for i, in := range inputs {
		cards = append(cards, models.Flashcard{
			DeckID:   deckID,
			Front:    in.Front,
			Back:     in.Back,
			Version:  version,
			Position: i,
		})
	}
	return cards
}

func currentFlashcards(db *gorm.DB, deck *models.Deck) ([]FlashcardOutput, error) {
	var cards []models.Flashcard
	err := db.Where("deck_id = ? AND version = ?", deck.ID, deck.Version).
		Order("position asc").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}

	out := make([]FlashcardOutput, 0, len(cards))
	for _, card := range cards {
		out = append(out, FlashcardOutput{ID: card.ID, Front: card.Front, Back: card.Back})
	}
	return out, nil
}

func deckSummaries(db *gorm.DB, decks []models.Deck) ([]DeckSummary, error) {
	out := make([]DeckSummary, 0, len(decks))
	for _, d := range decks {
		var count int64
		err := db.Model(&models.Flashcard{}).
			Where("deck_id = ? AND version = ?", d.ID, d.Version).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		out = append(out, DeckSummary{
			ID:             d.ID,
			Title:          d.Title,
			Description:    d.Description,
			AuthorID:       d.AuthorID,
			FlashcardCount: count,
			CreatedAt:      d.CreatedAt,
			UpdatedAt:      d.UpdatedAt,
		})
	}
	return out, nil
}

// ====== HANDLERS ======

func CreateDeck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DeckInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if msgs := utils.Validate(input); msgs != nil {
			utils.AbortError(c, http.StatusBadRequest, msgs...)
			return
		}

		authorID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "not logged in")
			return
		}

		deck := models.Deck{
			Title:       input.Title,
			Description: input.Description,
			AuthorID:    authorID,
			Version:     1,
		}

		// Deck row and its flashcards land in one transaction.
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Flashcards").Create(&deck).Error; err != nil {
				return err
			}
			cards := buildFlashcards(input.Flashcards, deck.ID, deck.Version)
			return tx.Create(&cards).Error
		})
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not create deck")
			return
		}

		cards, err := currentFlashcards(db, &deck)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not load flashcards")
			return
		}

		c.JSON(http.StatusCreated, deckDetail(&deck, cards, false))
	}
}

func GetDeck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deckID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.AbortError(c, http.StatusNotFound, "deck not found")
			return
		}

		var deck models.Deck
		if err := db.Where("id = ? AND is_deleted = ?", deckID, false).First(&deck).Error; err != nil {
			utils.AbortError(c, http.StatusNotFound, "deck not found")
			return
		}

		cards, err := currentFlashcards(db, &deck)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not load flashcards")
			return
		}

		// The bookmark flag is a separate lookup merged into the response,
		// false for anonymous callers.
		bookmarked := false
		if userID, err := uuid.Parse(c.GetString("user_id")); err == nil {
			var count int64
			db.Model(&models.Bookmark{}).
				Where("user_id = ? AND deck_id = ? AND is_deleted = ?", userID, deck.ID, false).
				Count(&count)
			bookmarked = count > 0
		}

		c.JSON(http.StatusOK, deckDetail(&deck, cards, bookmarked))
	}
}

func UpdateDeck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deck := c.MustGet(middleware.DeckContextKey).(*models.Deck)

		var input DeckInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if msgs := utils.Validate(input); msgs != nil {
			utils.AbortError(c, http.StatusBadRequest, msgs...)
			return
		}

		// New cards are written under the bumped version and the stale set is
		// purged in the same transaction, so readers only ever see one full
		// generation.
		err := db.Transaction(func(tx *gorm.DB) error {
			newVersion := deck.Version + 1
			cards := buildFlashcards(input.Flashcards, deck.ID, newVersion)
			if err := tx.Create(&cards).Error; err != nil {
				return err
			}
			if err := tx.Where("deck_id = ? AND version < ?", deck.ID, newVersion).
				Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}

			deck.Title = input.Title
			deck.Description = input.Description
			deck.Version = newVersion
			return tx.Save(deck).Error
		})
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not update deck")
			return
		}

		cards, err := currentFlashcards(db, deck)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not load flashcards")
			return
		}

		c.JSON(http.StatusOK, deckDetail(deck, cards, false))
	}
}

func DeleteDeck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deck := c.MustGet(middleware.DeckContextKey).(*models.Deck)

		// Soft delete only; flashcards and bookmarks stay in storage but every
		// read path filters on the deck flag.
		if err := db.Model(deck).Update("is_deleted", true).Error; err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not delete deck")
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// listDecks is the shared list/search/own pipeline: active filter + optional
// scope, allow-listed sort with the deck id as forced tiebreaker, fixed page
// size, and an unpaginated total.
func listDecks(c *gin.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) {
	opt := utils.BuildSort(c.Query("sortBy"), c.Query("order"), c.Query("page"), deckSortFields)

	query := db.Model(&models.Deck{}).Where("is_deleted = ?", false)
	if scope != nil {
		query = scope(query)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.AbortError(c, http.StatusInternalServerError, "could not count decks")
		return
	}

	var decks []models.Deck
	err := query.
		Order(fmt.Sprintf("%s %s, id asc", deckSortColumns[opt.SortBy], opt.Order)).
		Limit(utils.PageSize).
		Offset(opt.Offset()).
		Find(&decks).Error
	if err != nil {
		utils.AbortError(c, http.StatusInternalServerError, "could not list decks")
		return
	}

	summaries, err := deckSummaries(db, decks)
	if err != nil {
		utils.AbortError(c, http.StatusInternalServerError, "could not list decks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"decks": summaries, "total": total})
}

func GetDecks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listDecks(c, db, nil)
	}
}

func SearchDecks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			listDecks(c, db, nil)
			return
		}
		listDecks(c, db, func(query *gorm.DB) *gorm.DB {
			return query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		})
	}
}

func GetMyDecks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		listDecks(c, db, func(query *gorm.DB) *gorm.DB {
			return query.Where("author_id = ?", userID)
		})
	}
}

func deckDetail(deck *models.Deck, cards []FlashcardOutput, bookmarked bool) gin.H {
	return gin.H{
		"id":          deck.ID,
		"title":       deck.Title,
		"description": deck.Description,
		"author_id":   deck.AuthorID,
		"version":     deck.Version,
		"flashcards":  cards,
		"bookmarked":  bookmarked,
		"created_at":  deck.CreatedAt,
		"updated_at":  deck.UpdatedAt,
	}
}

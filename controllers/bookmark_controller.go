package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/middleware"
	"github.com/vnkhanh/flashdeck-backend/models"
	"github.com/vnkhanh/flashdeck-backend/utils"
	"github.com/vnkhanh/flashdeck-backend/ws"
)

// findActiveBookmark looks up the caller's active bookmark on an active deck.
// Soft-deleted bookmark rows are invisible here, so a remove-then-add cycle
// inserts a fresh row instead of reactivating the old one.
func findActiveBookmark(db *gorm.DB, userID, deckID uuid.UUID) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := db.
		Joins("JOIN decks ON decks.id = bookmarks.deck_id AND decks.is_deleted = ?", false).
		Where("bookmarks.user_id = ? AND bookmarks.deck_id = ? AND bookmarks.is_deleted = ?", userID, deckID, false).
		First(&bookmark).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func AddBookmark(db *gorm.DB, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		deck := c.MustGet(middleware.DeckContextKey).(*models.Deck)

		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "not logged in")
			return
		}

		if _, err := findActiveBookmark(db, userID, deck.ID); err == nil {
			utils.AbortError(c, http.StatusForbidden, "already bookmarked")
			return
		}

		bookmark := models.Bookmark{
			UserID: userID,
			DeckID: deck.ID,
		}
		if err := db.Create(&bookmark).Error; err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not add bookmark")
			return
		}

		notifyDeckBookmarked(db, hub, deck, c.GetString("username"))

		c.JSON(http.StatusCreated, gin.H{"message": "deck bookmarked"})
	}
}

func RemoveBookmark(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "not logged in")
			return
		}

		deckID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.AbortError(c, http.StatusNotFound, "deck not found")
			return
		}

		bookmark, err := findActiveBookmark(db, userID, deckID)
		if err != nil {
			utils.AbortError(c, http.StatusForbidden, "not bookmarked")
			return
		}

		if err := db.Model(bookmark).Update("is_deleted", true).Error; err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not remove bookmark")
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// GetBookmarks lists the caller's saved decks under the same sort/pagination
// contract as the deck listings, sorted by the deck's field with the deck id
// as tiebreaker.
func GetBookmarks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		opt := utils.BuildSort(c.Query("sortBy"), c.Query("order"), c.Query("page"), deckSortFields)

		query := db.Model(&models.Bookmark{}).
			Joins("JOIN decks ON decks.id = bookmarks.deck_id").
			Where("bookmarks.user_id = ? AND bookmarks.is_deleted = ? AND decks.is_deleted = ?", userID, false, false)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not count bookmarks")
			return
		}

		var decks []models.Deck
		err := query.
			Select("decks.*").
			Order(fmt.Sprintf("decks.%s %s, decks.id asc", deckSortColumns[opt.SortBy], opt.Order)).
			Limit(utils.PageSize).
			Offset(opt.Offset()).
			Scan(&decks).Error
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not list bookmarks")
			return
		}

		summaries, err := deckSummaries(db, decks)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not list bookmarks")
			return
		}

		c.JSON(http.StatusOK, gin.H{"decks": summaries, "total": total})
	}
}

// notifyDeckBookmarked writes a notification row for the deck author and
// pushes it over their WebSocket channel. Failures only log; the bookmark
// itself already committed.
func notifyDeckBookmarked(db *gorm.DB, hub *ws.Hub, deck *models.Deck, byUsername string) {
	deckID := deck.ID
	noti := models.Notification{
		UserID:  deck.AuthorID,
		Title:   "Your deck was bookmarked",
		Message: byUsername + " bookmarked \"" + deck.Title + "\"",
		Type:    "bookmark",
		DeckID:  &deckID,
	}
	if err := db.Create(&noti).Error; err != nil {
		return
	}

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", deck.AuthorID, false).
		Count(&unread)

	payload := map[string]interface{}{
		"type":    "bookmark_notification",
		"title":   noti.Title,
		"message": noti.Message,
		"deck_id": deck.ID,
	}
	if data, err := json.Marshal(payload); err == nil {
		hub.BroadcastToUser(deck.AuthorID.String(), websocket.TextMessage, data)
	}

	hub.SendBadgeUpdate(deck.AuthorID.String(), unread)
}

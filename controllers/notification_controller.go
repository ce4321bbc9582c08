package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/models"
	"github.com/vnkhanh/flashdeck-backend/utils"
)

func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var notifications []models.Notification
		err := db.Where("user_id = ?", userID).
			Order("created_at desc, id asc").
			Find(&notifications).Error
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not load notifications")
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&unread)

		c.JSON(http.StatusOK, gin.H{
			"notifications": notifications,
			"unread":        unread,
		})
	}
}

func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		notiID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.AbortError(c, http.StatusNotFound, "notification not found")
			return
		}

		var noti models.Notification
		if err := db.Where("id = ? AND user_id = ?", notiID, userID).First(&noti).Error; err != nil {
			utils.AbortError(c, http.StatusNotFound, "notification not found")
			return
		}

		now := time.Now()
		err = db.Model(&noti).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).Error
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not update notification")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
	}
}

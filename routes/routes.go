package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/controllers"
	"github.com/vnkhanh/flashdeck-backend/middleware"
	"github.com/vnkhanh/flashdeck-backend/services"
	"github.com/vnkhanh/flashdeck-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, tokens *services.TokenService, hub *ws.Hub) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck(db, hub))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RequireGuest(tokens), controllers.Register(db))
		auth.POST("/login", middleware.RequireGuest(tokens), controllers.Login(db, tokens))
		auth.POST("/logout", middleware.RequireAuth(tokens), controllers.Logout(tokens))
		auth.GET("/me", middleware.RequireAuth(tokens), controllers.Me())
		auth.GET("/username-exists", controllers.UsernameExists(db))
	}

	decks := api.Group("/decks")
	{
		decks.GET("", controllers.GetDecks(db))
		decks.GET("/search", controllers.SearchDecks(db))
		decks.GET("/mine", middleware.RequireAuth(tokens), controllers.GetMyDecks(db))
		decks.POST("", middleware.RequireAuth(tokens), controllers.CreateDeck(db))

		decks.GET("/:id", middleware.OptionalAuth(tokens), controllers.GetDeck(db))
		decks.PUT("/:id", middleware.RequireAuth(tokens), middleware.RequireDeckCreator(db), controllers.UpdateDeck(db))
		decks.DELETE("/:id", middleware.RequireAuth(tokens), middleware.RequireDeckCreator(db), controllers.DeleteDeck(db))

		decks.POST("/:id/bookmark", middleware.RequireAuth(tokens), middleware.RequireNotDeckCreator(db), controllers.AddBookmark(db, hub))
		decks.DELETE("/:id/bookmark", middleware.RequireAuth(tokens), controllers.RemoveBookmark(db))
	}

	api.GET("/bookmarks", middleware.RequireAuth(tokens), controllers.GetBookmarks(db))

	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.RequireAuth(tokens))
		notifications.GET("", controllers.GetNotifications(db))
		notifications.PATCH("/:id/read", controllers.MarkNotificationRead(db))
	}

	r.GET("/ws/user", ws.UserHandler(hub, tokens))

	return r
}

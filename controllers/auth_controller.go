package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashdeck-backend/models"
	"github.com/vnkhanh/flashdeck-backend/services"
	"github.com/vnkhanh/flashdeck-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Username string `json:"username" validate:"required,alphanum,min=5,max=15"`
	Password string `json:"password" validate:"required,min=6,max=32"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ====== HANDLERS ======

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if msgs := utils.Validate(input); msgs != nil {
			utils.AbortError(c, http.StatusBadRequest, msgs...)
			return
		}

		var existing models.User
		if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
			utils.AbortError(c, http.StatusBadRequest, "username already exists")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not hash password")
			return
		}

		newUser := models.User{
			Username: input.Username,
			Password: string(hashed),
		}
		if err := db.Create(&newUser).Error; err != nil {
			// Unique index still guards against a race on the pre-check.
			utils.AbortError(c, http.StatusBadRequest, "username already exists")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user": gin.H{
				"id":       newUser.ID,
				"username": newUser.Username,
			},
		})
	}
}

func Login(db *gorm.DB, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if msgs := utils.Validate(input); msgs != nil {
			utils.AbortError(c, http.StatusBadRequest, msgs...)
			return
		}

		var user models.User
		if err := db.Where("username = ?", input.Username).First(&user).Error; err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid username or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			utils.AbortError(c, http.StatusBadRequest, "invalid username or password")
			return
		}

		token, err := tokens.Generate(user.ID.String(), user.Username)
		if err != nil {
			utils.AbortError(c, http.StatusInternalServerError, "could not create token")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
			},
		})
	}
}

// Logout revokes exactly the token that authenticated this request.
func Logout(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens.Revoke(c.GetString("token"))
		c.Status(http.StatusNoContent)
	}
}

// Me is the session check: it echoes the user baked into the verified token.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":       c.GetString("user_id"),
				"username": c.GetString("username"),
			},
		})
	}
}

func UsernameExists(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")

		var user models.User
		err := db.Where("username = ?", username).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.AbortError(c, http.StatusInternalServerError, "could not check username")
			return
		}

		c.JSON(http.StatusOK, gin.H{"exists": err == nil})
	}
}

package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/access"
	"pulse/internal/domain/account"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxNameLen = 100

// GET /me (auth)
func GetCurrentUser(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	var user users.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Error(c, apperr.ErrUnauthorized)
			return
		}
		respond.Error(c, err)
		return
	}

	var sub *billing.Subscription
	var row billing.Subscription
	switch err := db.Where("user_id = ?", userID).First(&row).Error; {
	case err == nil:
		sub = &row
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respond.Error(c, err)
		return
	}

	page, err := pages.FindForUser(db, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:         BuildUserDTO(user),
		Subscription: BuildSubscriptionDTO(sub),
		Access:       access.ComputePolicy(time.Now(), sub),
		Page:         BuildPageSummaryDTO(page),
	})
}

// PATCH /user (auth)
func UpdateUser(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len([]rune(name)) > maxNameLen {
			respond.BadRequest(c, "Invalid request body", apperr.Field("name", "must be at most 100 characters"))
			return
		}
		updates["name"] = name
	}
	if req.Image != nil {
		if img := strings.TrimSpace(*req.Image); img == "" {
			updates["image"] = nil
		} else {
			updates["image"] = img
		}
	}
	if len(updates) == 0 {
		respond.BadRequest(c, "At least one field must be provided")
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var user users.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildUserDTO(user))
}

// DELETE /user (auth)
func DeleteUser(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	if err := account.DeleteUser(database.DB.WithContext(c.Request.Context()), userID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

package pagesapi

import (
	"net/http"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/app/http/middleware"
	"pulse/internal/domain/account"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"

	"github.com/gin-gonic/gin"
)

// GET /pages (auth)
func GetOwnPage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	page, err := pages.FindForUser(db, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if page == nil {
		c.JSON(http.StatusOK, GetPageResponse{})
		return
	}
	list, err := blocks.List(db, userID, page.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, GetPageResponse{Page: toPageDTO(page, list)})
}

// POST /pages (auth)
func CreatePage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	page, err := pages.Create(database.DB.WithContext(c.Request.Context()), userID, req.Username, req.DisplayName, req.Bio)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPageDTO(page, nil))
}

// GET /pages/:id (auth)
func GetPage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	page, err := pages.FindOwned(db, userID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	list, err := blocks.List(db, userID, page.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageDTO(page, list))
}

// PATCH /pages/:id (auth)
func UpdatePage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var in pages.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	page, err := pages.Update(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), in, middleware.Policy(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DELETE /pages/:id (auth)
func DeletePage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	if err := account.DeletePage(database.DB.WithContext(c.Request.Context()), userID, c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page deleted"})
}

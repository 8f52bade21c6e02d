package blocksapi

import (
	"fmt"
	"net/http"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/blocks"

	"github.com/gin-gonic/gin"
)

// GET /pages/:id/blocks (auth)
func ListBlocks(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	list, err := blocks.List(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(list))
}

// POST /pages/:id/blocks (auth)
// A client supplied order is ignored; new blocks always go last.
func CreateBlock(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body", apperr.Field("type", "is required"))
		return
	}
	t, ok := blocks.ParseType(req.Type)
	if !ok {
		respond.BadRequest(c, "unsupported block type", apperr.Field("type", fmt.Sprintf("unsupported block type %q", req.Type)))
		return
	}

	block, err := blocks.Append(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), t, req.Content)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// PATCH /pages/:id/blocks (auth)
func ReorderBlocks(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	pageID := c.Param("id")
	if err := blocks.Reorder(db, userID, pageID, req.Blocks); err != nil {
		respond.Error(c, err)
		return
	}
	list, err := blocks.List(db, userID, pageID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(list))
}

// GET /pages/:id/blocks/:blockId (auth)
func GetBlock(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	block, err := blocks.Get(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), c.Param("blockId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// PATCH /pages/:id/blocks/:blockId (auth)
func UpdateBlock(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var in blocks.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	block, err := blocks.Update(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), c.Param("blockId"), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// DELETE /pages/:id/blocks/:blockId (auth)
func DeleteBlock(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	if err := blocks.Delete(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), c.Param("blockId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Block deleted"})
}

// POST /pages/:id/blocks/:blockId/toggle (auth)
func ToggleBlock(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	block, err := blocks.ToggleVisibility(database.DB.WithContext(c.Request.Context()), userID, c.Param("id"), c.Param("blockId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

package pagesapi

import (
	"net/http"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/app/http/middleware"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/render"

	"github.com/gin-gonic/gin"
)

// GET /pages/:id/render?surface=editor|live (auth)
func RenderPage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	surface, ok := render.ParseSurface(c.DefaultQuery("surface", string(render.SurfaceEditor)))
	if !ok || surface == render.SurfacePublic {
		respond.BadRequest(c, "Invalid surface", apperr.Field("surface", "must be editor or live"))
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
	writeFragment(c, list, pages.ResolveTheme(page.Theme), surface)
}

// POST /pages/:id/preview (auth)
// Renders the live surface with an unsaved theme. The theme is checked like a
// save would be.
func PreviewPage(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	page, err := pages.FindOwned(db, userID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	settings := pages.ResolveTheme(page.Theme)
	if len(req.Theme) > 0 && string(req.Theme) != "null" {
		if settings, err = pages.ValidateTheme(req.Theme, middleware.Policy(c)); err != nil {
			respond.Error(c, err)
			return
		}
	}

	list, err := blocks.List(db, userID, page.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	writeFragment(c, list, settings, render.SurfaceLive)
}

func writeFragment(c *gin.Context, list []blocks.Block, settings pages.ThemeSettings, surface render.Surface) {
	out, err := render.HTML(render.Fragment(list, settings, render.Context{Surface: surface}))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

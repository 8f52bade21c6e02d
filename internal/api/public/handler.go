package publicapi

import (
	"context"
	"errors"
	"net/http"

	"pulse/config"
	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/access"
	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/infra/cache"
	"pulse/internal/infra/logger"
	"pulse/internal/render"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const clickEndpoint = "/analytics/click"

type Handler struct {
	Sink  analytics.Sink
	Cache *cache.PageCache
}

func NewHandler(sink analytics.Sink, pageCache *cache.PageCache) *Handler {
	return &Handler{Sink: sink, Cache: pageCache}
}

type published struct {
	page     *pages.Page
	blocks   []blocks.Block
	settings pages.ThemeSettings
	policy   access.Policy
}

func loadPublished(db *gorm.DB, username string) (*published, error) {
	page, err := pages.FindPublished(db, username)
	if err != nil {
		return nil, err
	}
	list, err := blocks.ListVisible(db, page.ID)
	if err != nil {
		return nil, err
	}
	policy, err := access.LoadPolicy(db, page.UserID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []blocks.Block{}
	}
	return &published{page: page, blocks: list, settings: pages.ResolveTheme(page.Theme), policy: policy}, nil
}

// GET /p/:username
func (h *Handler) RenderPage(c *gin.Context) {
	ctx := c.Request.Context()
	db := database.DB.WithContext(ctx)

	page, err := pages.FindPublished(db, c.Param("username"))
	if err != nil {
		h.htmlError(c, err)
		return
	}
	policy, err := access.LoadPolicy(db, page.UserID)
	if err != nil {
		h.htmlError(c, err)
		return
	}

	key := h.Cache.Key(page.ID, page.UpdatedAt, policy.Watermark)
	body, hit := h.Cache.Get(ctx, key)
	if !hit {
		list, err := blocks.ListVisible(db, page.ID)
		if err != nil {
			h.htmlError(c, err)
			return
		}
		body, err = render.HTML(render.Page(*page, list, pages.ResolveTheme(page.Theme), render.PageOptions{
			Watermark:     policy.Watermark,
			ClickEndpoint: clickEndpoint,
			HomeURL:       config.APP_URL,
		}))
		if err != nil {
			h.htmlError(c, err)
			return
		}
		h.Cache.Set(ctx, key, body)
	}

	h.recordView(ctx, page.ID)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// GET /public/pages/:username
func (h *Handler) GetPage(c *gin.Context) {
	p, err := loadPublished(database.DB.WithContext(c.Request.Context()), c.Param("username"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, PublicPageDTO{
		ID:          p.page.ID,
		Username:    p.page.Username,
		DisplayName: p.page.DisplayName,
		Bio:         p.page.Bio,
		Avatar:      p.page.Avatar,
		Theme:       p.settings,
		Watermark:   p.policy.Watermark,
		Blocks:      p.blocks,
	})
}

func (h *Handler) recordView(ctx context.Context, pageID string) {
	if err := h.Sink.Record(ctx, analytics.ViewEvent(pageID)); err != nil {
		logger.Error("failed to record page view", "page_id", pageID, "error", err)
	}
}

func (h *Handler) htmlError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Something went wrong"
	if errors.Is(err, apperr.ErrNotFound) {
		status, msg = http.StatusNotFound, "Page not found"
	} else {
		logger.Error("failed to render public page", "username", c.Param("username"), "error", err)
	}
	c.Data(status, "text/html; charset=utf-8", []byte("<!DOCTYPE html><html><body><h1>"+msg+"</h1></body></html>"))
}

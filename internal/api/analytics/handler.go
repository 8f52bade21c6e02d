package analyticsapi

import (
	"net/http"
	"strconv"
	"time"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultDays = 30
	maxDays     = 365
)

type Handler struct {
	Sink analytics.Sink
}

func NewHandler(sink analytics.Sink) *Handler {
	return &Handler{Sink: sink}
}

// GET /analytics?days=N (auth)
func (h *Handler) Summary(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	days, ok := parseDays(c.Query("days"))
	if !ok {
		respond.BadRequest(c, "Invalid days", apperr.Field("days", "must be an integer between 1 and 365"))
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	now := time.Now()
	since := analytics.WindowStart(now, days)

	page, err := pages.FindForUser(db, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var views []time.Time
	var rows []clickRow
	if page != nil {
		if views, err = viewTimes(db, page.ID, since); err != nil {
			respond.Error(c, err)
			return
		}
		if rows, err = pageClicks(db, page.ID, since); err != nil {
			respond.Error(c, err)
			return
		}
	}

	clickTimes := make([]time.Time, 0, len(rows))
	records := make([]analytics.ClickRecord, 0, len(rows))
	for _, r := range rows {
		clickTimes = append(clickTimes, r.CreatedAt)
		b := blocks.Block{ID: r.BlockID, Type: r.Type, Content: r.Content}
		// Label falls back to the type name when stored content no longer decodes.
		content, err := b.Decode()
		if err != nil {
			logger.Debug("block content not decodable for label", "block_id", r.BlockID, "error", err)
		}
		records = append(records, analytics.ClickRecord{
			BlockID: r.BlockID,
			Type:    string(r.Type),
			Label:   blocks.Label(r.Type, content),
		})
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Views:      len(views),
		Clicks:     len(rows),
		CTR:        analytics.FormatCTR(len(views), len(rows)),
		ViewsData:  analytics.AggregateByDay(views, days, now),
		ClicksData: analytics.AggregateByDay(clickTimes, days, now),
		TopBlocks:  analytics.TopBlocks(records, analytics.TopBlocksLimit),
	})
}

// POST /analytics/click (public, rate limited)
// The event is handed to the sink; storage failures never reach the visitor.
func (h *Handler) Click(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BlockID == "" {
		respond.BadRequest(c, "Block ID required", apperr.Field("blockId", "is required"))
		return
	}

	exists, err := blockExists(database.DB.WithContext(c.Request.Context()), req.BlockID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if !exists {
		respond.Error(c, apperr.ErrNotFound)
		return
	}

	if err := h.Sink.Record(c.Request.Context(), analytics.ClickEvent(req.BlockID)); err != nil {
		logger.Error("failed to record click", "block_id", req.BlockID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseDays(raw string) (int, bool) {
	if raw == "" {
		return defaultDays, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxDays {
		return 0, false
	}
	return n, true
}

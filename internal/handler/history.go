package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zhenga8533/hsb-economy-api/internal/repository"
)

// HistoryHandler exposes the optional price-history archive. Repo may be
// nil when no database is configured.
type HistoryHandler struct {
	Repo   repository.HistoryRepository
	Logger *zap.Logger
}

func (h *HistoryHandler) Register(r *gin.Engine) {
	r.GET("/history/:item", h.itemHistory)
}

func (h *HistoryHandler) itemHistory(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusServiceUnavailable, "history archive disabled")
		return
	}
	params := repository.ListHistoryParams{
		ItemID: c.Param("item"),
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			params.Limit = parsed
		}
	}
	if raw := c.Query("since"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			params.Since = &parsed
		}
	}
	items, err := h.Repo.ListItemPriceHistory(c.Request.Context(), params)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list item history failed", zap.String("item", params.ItemID), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "query failed")
		return
	}
	Ok(c, items)
}

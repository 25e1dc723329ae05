package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EconomyHandler is the downstream surface the pipeline posts to and mod
// clients read from: the latest accepted auction and bazaar payloads, held
// in memory with their receive time. Writes are key-gated.
type EconomyHandler struct {
	Key    string
	Logger *zap.Logger

	mu      sync.RWMutex
	auction storedPayload
	bazaar  storedPayload
}

type storedPayload struct {
	LastUpdated int64           `json:"last_updated"`
	Items       json.RawMessage `json:"items"`
}

type postBody struct {
	Items json.RawMessage `json:"items"`
}

func (h *EconomyHandler) Register(r *gin.Engine) {
	r.GET("/auction", h.getAuction)
	r.POST("/auction", h.postAuction)
	r.GET("/bazaar", h.getBazaar)
	r.POST("/bazaar", h.postBazaar)
}

func (h *EconomyHandler) getAuction(c *gin.Context) {
	h.mu.RLock()
	payload := h.auction
	h.mu.RUnlock()
	h.reply(c, payload)
}

func (h *EconomyHandler) getBazaar(c *gin.Context) {
	h.mu.RLock()
	payload := h.bazaar
	h.mu.RUnlock()
	h.reply(c, payload)
}

func (h *EconomyHandler) reply(c *gin.Context, payload storedPayload) {
	if payload.Items == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *EconomyHandler) postAuction(c *gin.Context) {
	h.accept(c, &h.auction, "auction")
}

func (h *EconomyHandler) postBazaar(c *gin.Context) {
	h.accept(c, &h.bazaar, "bazaar")
}

func (h *EconomyHandler) accept(c *gin.Context, slot *storedPayload, kind string) {
	if c.Query("key") != h.Key || h.Key == "" {
		c.String(http.StatusUnauthorized, "Access denied")
		return
	}
	var body postBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	stored := storedPayload{
		LastUpdated: time.Now().Unix(),
		Items:       body.Items,
	}
	h.mu.Lock()
	*slot = stored
	h.mu.Unlock()
	if h.Logger != nil {
		h.Logger.Info("payload accepted", zap.String("kind", kind), zap.Int("bytes", len(body.Items)))
	}
	c.JSON(http.StatusOK, stored)
}

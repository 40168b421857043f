package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IBStats returns the caller's introducing-broker wallet and referral counts.
func (h *Handler) IBStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.Referrals.Stats(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// IBEvents lists recent commission accruals, newest first.
func (h *Handler) IBEvents(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	events, err := h.Referrals.Events(c.Request.Context(), userID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

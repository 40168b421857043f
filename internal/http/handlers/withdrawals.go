package handlers

import (
	"net/http"
	"strconv"

	"fxportal/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateWithdrawal places a withdrawal request. The amount is held on the
// account immediately; an admin decision settles or releases it.
func (h *Handler) CreateWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req service.WithdrawalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	withdrawal, err := h.Withdrawals.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
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

	withdrawals, err := h.Withdrawals.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

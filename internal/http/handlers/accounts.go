package handlers

import (
	"net/http"
	"strconv"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/gin-gonic/gin"
)

type createAccountRequest struct {
	Type     string `json:"type"`
	Group    string `json:"group"`
	Leverage int    `json:"leverage"`
}

func (h *Handler) CreateAccount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createAccountRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	account, err := h.Accounts.Create(c.Request.Context(), userID, domain.AccountType(req.Type), req.Group, req.Leverage)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	accounts, err := h.Accounts.List(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *Handler) GetAccount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	account, err := h.Accounts.Get(c.Request.Context(), userID, accountID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// AccountLedger returns the account's recent ledger entries, newest first.
func (h *Handler) AccountLedger(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	// ownership check before exposing history
	if _, err := h.Accounts.Get(c.Request.Context(), userID, accountID); err != nil {
		respondErr(c, err)
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := repository.NewLedgerEntryRepository(h.DB).GetByAccountID(c.Request.Context(), accountID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) SetAccountEnabled(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req setEnabledRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Accounts.SetEnabled(c.Request.Context(), userID, accountID, req.Enabled); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

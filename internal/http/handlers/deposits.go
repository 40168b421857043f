package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"fxportal/internal/http/middleware"
	"fxportal/internal/logger"
	"fxportal/internal/payment"
	"fxportal/internal/service"

	"github.com/gin-gonic/gin"
)

type createDepositRequest struct {
	AccountID int64  `json:"account_id"`
	Method    string `json:"method"`
	Amount    string `json:"amount"`
}

// CreateDeposit opens a payment intent with the provider and returns the
// redirect URL the client should send the user to.
func (h *Handler) CreateDeposit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createDepositRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	result, err := h.Deposits.CreateIntent(c.Request.Context(), userID, req.AccountID, req.Method, req.Amount)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"deposit":      result.Deposit,
		"redirect_url": result.RedirectURL,
	})
}

func (h *Handler) ListDeposits(c *gin.Context) {
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

	deposits, err := h.Deposits.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

// DepositStatus polls the provider for the intent state and settles the
// deposit if it reached a terminal status. Used by the return page.
func (h *Handler) DepositStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	providerID := c.Param("provider_id")
	deposit, err := h.Deposits.PaymentStatus(c.Request.Context(), userID, providerID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, deposit)
}

// PaymentWebhook settles deposits from provider callbacks. Unauthenticated;
// trust comes from the HMAC signature over the raw body.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !payment.VerifyWebhookSignature(body, c.GetHeader("X-Signature"), h.WebhookSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case payment.EventPaymentSucceeded:
		_, err = h.Deposits.Complete(ctx, event.IntentID, event.TransactionID)
		if err == nil {
			middleware.DepositsSettled.WithLabelValues("completed").Inc()
		}
	case payment.EventPaymentFailed:
		err = h.Deposits.Fail(ctx, event.IntentID)
		if err == nil {
			middleware.DepositsSettled.WithLabelValues("failed").Inc()
		}
	default:
		// unknown event types are acknowledged and ignored
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err != nil {
		// settled already: acknowledge so the provider stops retrying
		if errors.Is(err, service.ErrDuplicateTransaction) || errors.Is(err, service.ErrStateConflict) {
			c.JSON(http.StatusOK, gin.H{"status": "already processed"})
			return
		}
		logger.Error("webhook settlement failed", "intent_id", event.IntentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fxportal/internal/domain"
	"fxportal/internal/http/middleware"
	"fxportal/internal/service"

	"github.com/gin-gonic/gin"
)

type internalTransferRequest struct {
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes"`
}

// InternalTransfer moves funds between two of the caller's own accounts.
// No fee, settles immediately.
func (h *Handler) InternalTransfer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req internalTransferRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	transfer, err := h.Transfers.Internal(c.Request.Context(), userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Notes)
	if err != nil {
		respondErr(c, err)
		return
	}

	middleware.TransfersSettled.WithLabelValues("internal", "completed").Inc()
	c.JSON(http.StatusCreated, transfer)
}

type externalTransferRequest struct {
	FromAccountID   int64  `json:"from_account_id"`
	ToAccountNumber string `json:"to_account_number"`
	Amount          string `json:"amount"`
	OTPMethod       string `json:"otp_method"`
}

// ExternalTransfer starts an OTP-gated transfer to another user's account.
// Amount plus fee is held until the code is confirmed or expires.
func (h *Handler) ExternalTransfer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req externalTransferRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	transfer, err := h.Transfers.ExternalRequest(c.Request.Context(), userID, req.FromAccountID,
		req.ToAccountNumber, req.Amount, domain.OTPMethod(req.OTPMethod))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

type confirmTransferRequest struct {
	Code string `json:"code"`
}

// ConfirmTransfer settles a pending external transfer with the OTP code.
func (h *Handler) ConfirmTransfer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	transferID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer id"})
		return
	}

	var req confirmTransferRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	transfer, err := h.Transfers.ExternalConfirm(c.Request.Context(), userID, transferID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) || errors.Is(err, service.ErrOTPExpired) {
			middleware.OTPFailures.Inc()
		}
		respondErr(c, err)
		return
	}

	middleware.TransfersSettled.WithLabelValues("external", "completed").Inc()
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) ListTransfers(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind := domain.TransferKind(c.Query("kind"))
	switch kind {
	case domain.TransferKindInternal, domain.TransferKindExternal, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	transfers, err := h.Transfers.List(c.Request.Context(), userID, kind, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transfers": transfers})
}

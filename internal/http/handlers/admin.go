package handlers

import (
	"net/http"
	"strconv"

	"fxportal/internal/domain"
	"fxportal/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Admin back-office endpoints. All run behind JWT + RequireAdmin and every
// decision is audit-logged with the acting admin's id.

func (h *Handler) AdminListPendingDocuments(c *gin.Context) {
	docs, err := h.Documents.ListPending(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) AdminVerifyDocument(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	docID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	ownerID, status, err := h.Documents.Verify(c.Request.Context(), adminID, docID)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.Audit.LogAdmin(c.Request.Context(), adminID, "document_verified", ownerID,
		map[string]interface{}{"document_id": docID})

	c.JSON(http.StatusOK, status)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) AdminRejectDocument(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	docID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	var req rejectRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ownerID, err := h.Documents.Reject(c.Request.Context(), adminID, docID, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.Audit.LogAdmin(c.Request.Context(), adminID, "document_rejected", ownerID,
		map[string]interface{}{"document_id": docID, "reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) AdminListPendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.Withdrawals.ListPending(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

func (h *Handler) AdminProcessWithdrawal(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	withdrawal, err := h.Withdrawals.MarkProcessing(c.Request.Context(), adminID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.Audit.LogAdmin(c.Request.Context(), adminID, "withdrawal_processing", withdrawal.UserID,
		map[string]interface{}{"withdrawal_id": id})

	c.JSON(http.StatusOK, gin.H{"status": "processing"})
}

func (h *Handler) AdminCompleteWithdrawal(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	withdrawal, err := h.Withdrawals.Complete(c.Request.Context(), adminID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	middleware.WithdrawalsDecided.WithLabelValues("completed").Inc()
	h.Audit.LogAdmin(c.Request.Context(), adminID, "withdrawal_completed", withdrawal.UserID,
		map[string]interface{}{"withdrawal_id": id, "amount": withdrawal.Amount.String()})

	c.JSON(http.StatusOK, withdrawal)
}

func (h *Handler) AdminRejectWithdrawal(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req rejectRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	withdrawal, err := h.Withdrawals.Reject(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}

	middleware.WithdrawalsDecided.WithLabelValues("rejected").Inc()
	h.Audit.LogAdmin(c.Request.Context(), adminID, "withdrawal_rejected", withdrawal.UserID,
		map[string]interface{}{"withdrawal_id": id, "reason": req.Reason})

	c.JSON(http.StatusOK, withdrawal)
}

type referralDecisionRequest struct {
	Status string `json:"status"`
}

// AdminSetReferralStatus accepts or rejects a pending referral relationship.
// Commission only accrues for accepted referrals.
func (h *Handler) AdminSetReferralStatus(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req referralDecisionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Referrals.SetStatus(c.Request.Context(), userID, domain.ReferralStatus(req.Status)); err != nil {
		respondErr(c, err)
		return
	}

	h.Audit.LogAdmin(c.Request.Context(), adminID, "referral_"+req.Status, userID, nil)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ticketStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) AdminSetTicketStatus(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req ticketStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Tickets.SetStatus(c.Request.Context(), adminID, true, ticketID, domain.TicketStatus(req.Status)); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminAuditLogs lists recent audit entries in one category.
func (h *Handler) AdminAuditLogs(c *gin.Context) {
	category := c.DefaultQuery("category", domain.AuditCategoryAdmin)

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	logs, err := h.Audit.Recent(c.Request.Context(), category, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

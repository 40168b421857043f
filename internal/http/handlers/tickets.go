package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) CreateTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createTicketRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ticket, err := h.Tickets.Create(c.Request.Context(), userID, req.Subject, req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) ListTickets(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tickets, err := h.Tickets.List(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicket returns one ticket with its reply thread.
func (h *Handler) GetTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ticket, replies, err := h.Tickets.Get(c.Request.Context(), userID, isAdmin(c), ticketID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "replies": replies})
}

type ticketReplyRequest struct {
	Message string `json:"message"`
}

func (h *Handler) ReplyTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req ticketReplyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	reply, err := h.Tickets.Reply(c.Request.Context(), userID, isAdmin(c), ticketID, req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

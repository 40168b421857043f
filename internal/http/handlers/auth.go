package handlers

import (
	"net/http"

	"fxportal/internal/domain"
	"fxportal/internal/service"

	"github.com/gin-gonic/gin"
)

// Signup registers a user and returns a fresh token.
func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.Auth.Signup(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	token, err := service.GenerateJWT(user.ID, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	h.Audit.LogWithRequest(c.Request.Context(), user.ID, "signup", domain.AuditCategoryAuth,
		c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondErr(c, err)
		return
	}

	token, err := service.GenerateJWT(user.ID, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	h.Audit.LogWithRequest(c.Request.Context(), user.ID, "login", domain.AuditCategoryAuth,
		c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

package http

import (
	"os"
	"strconv"
	"time"

	"fxportal/internal/config"
	"fxportal/internal/http/handlers"
	"fxportal/internal/http/middleware"
	"fxportal/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the portal API. The returned hub should be attached
// to the ledger service as its notifier.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, version string) (*handlers.Handler, *ws.Hub) {
	h := handlers.NewHandler(db, redisClient, cfg)
	healthHandler := handlers.NewHealthHandler(db, redisClient, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// money-moving endpoints get a tighter per-user budget
	fundsRateLimit := 10
	if v := os.Getenv("FUNDS_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			fundsRateLimit = n
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Provider callbacks: authenticated by HMAC signature, not JWT
	r.POST("/webhooks/payment", h.PaymentWebhook)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	authRL := middleware.RedisRateLimit(authRateLimit, authRateWindow)
	fundsRL := middleware.FundsRateLimit(fundsRateLimit, time.Minute)

	// Auth
	v1.POST("/auth/signup", authRL, h.Signup)
	v1.POST("/auth/login", authRL, h.Login)

	// Profile
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.PATCH("/me", middleware.JWT(), h.UpdateProfile)

	// Trading accounts
	accounts := v1.Group("/accounts", middleware.JWT())
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.GET("/:id/ledger", h.AccountLedger)
		accounts.PATCH("/:id/enabled", h.SetAccountEnabled)
	}

	// Deposits
	deposits := v1.Group("/deposits", middleware.JWT())
	{
		deposits.POST("", fundsRL, h.CreateDeposit)
		deposits.GET("", h.ListDeposits)
		deposits.GET("/status/:provider_id", h.DepositStatus)
	}

	// Withdrawals
	withdrawals := v1.Group("/withdrawals", middleware.JWT())
	{
		withdrawals.POST("", fundsRL, h.CreateWithdrawal)
		withdrawals.GET("", h.ListWithdrawals)
	}

	// Fund transfers
	transfers := v1.Group("/transfers", middleware.JWT())
	{
		transfers.POST("/internal", fundsRL, h.InternalTransfer)
		transfers.POST("/external", fundsRL, h.ExternalTransfer)
		transfers.POST("/external/:id/confirm", fundsRL, h.ConfirmTransfer)
		transfers.GET("", h.ListTransfers)
	}

	// Verification documents
	documents := v1.Group("/documents", middleware.JWT())
	{
		documents.POST("", h.UploadDocument)
		documents.GET("", h.ListDocuments)
	}
	v1.GET("/verification", middleware.JWT(), h.VerificationStatus)

	// Introducing broker
	ib := v1.Group("/ib", middleware.JWT())
	{
		ib.GET("/stats", h.IBStats)
		ib.GET("/events", h.IBEvents)
	}

	// Support tickets
	tickets := v1.Group("/tickets", middleware.JWT())
	{
		tickets.POST("", h.CreateTicket)
		tickets.GET("", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.POST("/:id/replies", h.ReplyTicket)
	}

	// Admin back office
	admin := v1.Group("/admin", middleware.JWT(), middleware.RequireAdmin())
	{
		admin.GET("/documents/pending", h.AdminListPendingDocuments)
		admin.POST("/documents/:id/verify", h.AdminVerifyDocument)
		admin.POST("/documents/:id/reject", h.AdminRejectDocument)

		admin.GET("/withdrawals/pending", h.AdminListPendingWithdrawals)
		admin.POST("/withdrawals/:id/process", h.AdminProcessWithdrawal)
		admin.POST("/withdrawals/:id/complete", h.AdminCompleteWithdrawal)
		admin.POST("/withdrawals/:id/reject", h.AdminRejectWithdrawal)

		admin.POST("/referrals/:user_id", h.AdminSetReferralStatus)
		admin.PATCH("/tickets/:id/status", h.AdminSetTicketStatus)
		admin.GET("/audit", h.AdminAuditLogs)
	}

	// WebSocket push for account updates
	hub := ws.NewHub()
	r.GET("/ws", ws.HandleWS(hub))

	return h, hub
}

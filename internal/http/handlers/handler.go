package handlers

import (
	"errors"
	"net/http"

	"fxportal/internal/config"
	"fxportal/internal/logger"
	"fxportal/internal/payment"
	"fxportal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

type Handler struct {
	DB *pgxpool.Pool

	Auth         *service.AuthService
	Accounts     *service.AccountService
	Ledger       *service.LedgerService
	Deposits     *service.DepositService
	Withdrawals  *service.WithdrawalService
	Transfers    *service.TransferService
	Referrals    *service.ReferralService
	Documents    *service.DocumentService
	Verification *service.VerificationService
	Tickets      *service.TicketService
	Audit        *service.AuditService

	WebhookSecret string
}

func NewHandler(db *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config) *Handler {
	ledger := service.NewLedgerService(db)
	verification := service.NewVerificationService(db)
	referrals := service.NewReferralService(db, cfg.CommissionRate)
	provider := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	otp := service.NewOTPStore(redisClient, cfg.TransferOTPExpiry)

	return &Handler{
		DB:            db,
		Auth:          service.NewAuthService(db),
		Accounts:      service.NewAccountService(db, verification),
		Ledger:        ledger,
		Deposits:      service.NewDepositService(db, ledger, referrals, provider, cfg.PaymentReturnURL, cfg.MinDepositUSD),
		Withdrawals:   service.NewWithdrawalService(db, ledger, verification, cfg.MinWithdrawalUSD),
		Transfers:     service.NewTransferService(db, ledger, otp, cfg.ExternalFeeRate, cfg.TransferOTPExpiry),
		Referrals:     referrals,
		Documents:     service.NewDocumentService(db, verification),
		Verification:  verification,
		Tickets:       service.NewTicketService(db),
		Audit:         service.NewAuditService(db),
		WebhookSecret: cfg.PaymentWebhookSecret,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := uidVal.(int64)
	return id, ok
}

func isAdmin(c *gin.Context) bool {
	v, ok := c.Get("is_admin")
	return ok && v == true
}

// respondErr maps service errors to HTTP status codes. Unknown errors become
// an opaque 500; the detail goes to the log only.
func respondErr(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Msg})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRecipient),
		errors.Is(err, service.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStateConflict),
		errors.Is(err, service.ErrDuplicateTransaction):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOTPExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

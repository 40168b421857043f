package config

import (
	"os"
	"strconv"
	"time"

	"fxportal/internal/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Payment provider
	PaymentAPIURL        string
	PaymentAPIKey        string
	PaymentReturnURL     string
	PaymentWebhookSecret string

	// Platform policy
	MinDepositUSD     decimal.Decimal
	MinWithdrawalUSD  decimal.Decimal
	ExternalFeeRate   decimal.Decimal
	CommissionRate    decimal.Decimal
	TransferOTPExpiry time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment. Required variables are
// fatal when missing.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	// $10 platform minimum for deposits and withdrawals
	minDeposit := decimal.NewFromInt(10)
	if v := os.Getenv("MIN_DEPOSIT_USD"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.Sign() > 0 {
			minDeposit = d
		}
	}

	minWithdrawal := decimal.NewFromInt(10)
	if v := os.Getenv("MIN_WITHDRAWAL_USD"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.Sign() > 0 {
			minWithdrawal = d
		}
	}

	// 2.5% on external transfers
	feeRate := decimal.New(25, -3)
	if v := os.Getenv("EXTERNAL_TRANSFER_FEE_RATE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.Sign() >= 0 {
			feeRate = d
		}
	}

	// default IB commission: 1% of referred deposits
	commissionRate := decimal.New(1, -2)
	if v := os.Getenv("IB_COMMISSION_RATE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.Sign() >= 0 {
			commissionRate = d
		}
	}

	otpExpiry := 10 * time.Minute
	if v := os.Getenv("TRANSFER_OTP_EXPIRY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			otpExpiry = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:              port,
		DatabaseURL:          dbURL,
		JWTSecret:            jwtSecret,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		PaymentAPIURL:        os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey:        os.Getenv("PAYMENT_API_KEY"),
		PaymentReturnURL:     os.Getenv("PAYMENT_RETURN_URL"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		MinDepositUSD:        minDeposit,
		MinWithdrawalUSD:     minWithdrawal,
		ExternalFeeRate:      feeRate,
		CommissionRate:       commissionRate,
		TransferOTPExpiry:    otpExpiry,
		LogLevel:             os.Getenv("LOG_LEVEL"),
		LogJSON:              os.Getenv("LOG_JSON") == "true",
	}
}

package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	DepositsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deposits_settled_total",
			Help: "Deposits settled by terminal status",
		},
		[]string{"status"},
	)
	WithdrawalsDecided = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawals_decided_total",
			Help: "Withdrawal requests decided by terminal status",
		},
		[]string{"status"},
	)
	TransfersSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_transfers_settled_total",
			Help: "Fund transfers settled by kind and terminal status",
		},
		[]string{"kind", "status"},
	)
	OTPFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transfer_otp_failures_total",
			Help: "Rejected OTP confirmation attempts",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(DepositsSettled)
	prometheus.MustRegister(WithdrawalsDecided)
	prometheus.MustRegister(TransfersSettled)
	prometheus.MustRegister(OTPFailures)
}

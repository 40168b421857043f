package service

import "errors"

// Sentinel errors shared by the money-moving services. Handlers map these to
// HTTP status codes; every rejected mutation carries a human-readable reason.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountNotFound      = errors.New("account not found")
	ErrNotFound             = errors.New("record not found")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidRecipient     = errors.New("invalid recipient account")
	ErrNotVerified          = errors.New("identity verification required")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrUnauthorized         = errors.New("not authorized to act on this resource")
	ErrStateConflict        = errors.New("operation conflicts with current state")
	ErrOTPInvalid           = errors.New("invalid confirmation code")
	ErrOTPExpired           = errors.New("confirmation code expired")
)

// ValidationError reports a malformed or missing request field. The message
// is shown to the end user as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

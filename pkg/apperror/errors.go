package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is a structured error that maps to HTTP responses. Internal causes
// are wrapped in Err and never exposed to the client.
type AppError struct {
	Code       string        `json:"error_code"`
	Message    string        `json:"message"`
	HTTPStatus int           `json:"-"`
	Remaining  int           `json:"remaining_attempts,omitempty"` // OTP_003 only
	RetryAfter time.Duration `json:"retry_after,omitempty"`        // OTP_004 only
	Err        error         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet & Ledger (WAL) ----

func ErrWalletInactive() *AppError {
	return New("WAL_001", "Wallet is not active", http.StatusForbidden)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_002", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

// ErrConcurrencyConflict signals a lost CAS race. The coordinator retries it
// internally; callers only ever see ErrTransient after the retry bound.
func ErrConcurrencyConflict() *AppError {
	return New("WAL_003", "Concurrent wallet mutation, retry", http.StatusConflict)
}

func ErrTransient() *AppError {
	return New("WAL_004", "Wallet is busy, please retry", http.StatusServiceUnavailable)
}

// IsConcurrencyConflict reports whether err is a lost CAS race.
func IsConcurrencyConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "WAL_003"
}

// ---- Transactions (TXN) ----

func ErrInvalidAmount() *AppError {
	return New("TXN_001", "Invalid amount", http.StatusBadRequest)
}

func ErrTransactionNotFound() *AppError {
	return New("TXN_002", "Transaction not found", http.StatusNotFound)
}

func ErrTransactionNotPending() *AppError {
	return New("TXN_003", "Transaction is not pending", http.StatusConflict)
}

func ErrUnverifiedSettlement() *AppError {
	return New("TXN_004", "Settlement confirmation is not verified", http.StatusBadRequest)
}

// ---- OTP Challenges (OTP) ----

func ErrOTPNotFound() *AppError {
	return New("OTP_001", "No active challenge", http.StatusNotFound)
}

func ErrOTPExpired() *AppError {
	return New("OTP_002", "Challenge has expired", http.StatusGone)
}

func ErrOTPInvalid(remaining int) *AppError {
	e := New("OTP_003", fmt.Sprintf("Invalid code, %d attempts remaining", remaining), http.StatusUnauthorized)
	e.Remaining = remaining
	return e
}

func ErrOTPLocked(retryAfter time.Duration) *AppError {
	e := New("OTP_004", "Too many attempts, challenge locked", http.StatusLocked)
	e.RetryAfter = retryAfter
	return e
}

// ---- Fraud (FRD) ----

func ErrFraudBlocked() *AppError {
	return New("FRD_001", "Transaction blocked", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

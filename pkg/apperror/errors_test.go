package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("WAL_001", "Wallet is not active", http.StatusForbidden)
	assert.Equal(t, "[WAL_001] Wallet is not active", e.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, errors.New("pg down"))
	assert.Contains(t, wrapped.Error(), "pg down")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := InternalError(fmt.Errorf("wrapping: %w", cause))
	assert.True(t, errors.Is(e, cause))
}

func TestErrOTPInvalid_CarriesRemaining(t *testing.T) {
	e := ErrOTPInvalid(2)
	assert.Equal(t, "OTP_003", e.Code)
	assert.Equal(t, 2, e.Remaining)
	assert.Contains(t, e.Message, "2 attempts remaining")
}

func TestErrOTPLocked_CarriesRetryAfter(t *testing.T) {
	e := ErrOTPLocked(15 * time.Minute)
	assert.Equal(t, "OTP_004", e.Code)
	assert.Equal(t, 15*time.Minute, e.RetryAfter)
	assert.Equal(t, http.StatusLocked, e.HTTPStatus)
}

func TestErrorCodesAreStable(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
		http int
	}{
		{ErrWalletInactive(), "WAL_001", http.StatusForbidden},
		{ErrInsufficientFunds(), "WAL_002", http.StatusPaymentRequired},
		{ErrConcurrencyConflict(), "WAL_003", http.StatusConflict},
		{ErrTransient(), "WAL_004", http.StatusServiceUnavailable},
		{ErrInvalidAmount(), "TXN_001", http.StatusBadRequest},
		{ErrTransactionNotFound(), "TXN_002", http.StatusNotFound},
		{ErrTransactionNotPending(), "TXN_003", http.StatusConflict},
		{ErrUnverifiedSettlement(), "TXN_004", http.StatusBadRequest},
		{ErrOTPNotFound(), "OTP_001", http.StatusNotFound},
		{ErrOTPExpired(), "OTP_002", http.StatusGone},
		{ErrFraudBlocked(), "FRD_001", http.StatusForbidden},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.http, tc.err.HTTPStatus)
	}
}

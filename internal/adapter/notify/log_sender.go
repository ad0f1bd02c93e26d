// Package notify provides NotificationSender implementations. The core only
// requires that a sender exists; real SMS/email delivery is deployment
// specific and plugs in behind the same port.
package notify

import (
	"context"

	"wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogSender is a development sender that records delivery attempts without
// transmitting anything. The plain code is never written to the log.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "notify").Logger()}
}

// Send records the delivery attempt.
func (s *LogSender) Send(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, plainCode string) error {
	s.log.Info().
		Str("user_id", userID.String()).
		Str("purpose", string(purpose)).
		Int("code_length", len(plainCode)).
		Msg("OTP delivery requested")
	return nil
}

package mail

import (
	"context"
	"log/slog"

	"github.com/borntotravel/auth/pkg/slogx"
)

// LogSender records deliveries in the log instead of sending mail. It is
// used when no SMTP relay is configured.
type LogSender struct {
	// RevealCodes writes the code itself at debug level. Development only.
	RevealCodes bool
}

func (s LogSender) SendResetCode(ctx context.Context, to, code string) error {
	log := slogx.FromContext(ctx)
	if s.RevealCodes {
		log.Debug("reset code issued (log sender)", slog.String("to", to), slog.String("code", code))
		return nil
	}
	log.Info("reset code issued (log sender)", slog.String("to", to))
	return nil
}

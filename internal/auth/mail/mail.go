// Package mail delivers password-reset codes.
package mail

import (
	"context"
	"fmt"
	"html"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender hands a reset code to the user out of band.
type Sender interface {
	SendResetCode(ctx context.Context, to, code string) error
}

const (
	resetSubject = "Réinitialisation de votre mot de passe"
	resetText    = "Bonjour,\r\n\r\nVous avez demandé la réinitialisation de votre mot de passe.\r\n\r\nVoici le code : %s\r\n"
	resetHTML    = "Bonjour,<br><br>Vous avez demandé la réinitialisation de votre mot de passe.<br><br>Voici le code :<br><br>%s"
)

// newResetMessage builds the reset mail with a plain-text body and an HTML
// alternative.
func newResetMessage(fromName, from, to, code string, now time.Time) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(fromName, from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(resetSubject)
	m.SetDateWithValue(now)
	m.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(resetText, code))
	m.AddAlternativeString(gomail.TypeTextHTML, fmt.Sprintf(resetHTML, html.EscapeString(code)))
	return m, nil
}

package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ImplicitTLSPort is the SMTPS port; any other port upgrades with STARTTLS
// when the server offers it.
const ImplicitTLSPort = 465

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // also the envelope sender
	Password string
	FromName string
	Timeout  time.Duration
}

// SMTPSender delivers reset codes through an authenticated SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig

	// Now stamps the Date header. Defaults to time.Now.
	Now func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail: smtp host is required")
	}
	if cfg.Username == "" {
		return nil, errors.New("mail: smtp sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = ImplicitTLSPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := &SMTPSender{cfg: cfg, Now: time.Now}
	if _, err := s.client(); err != nil {
		return nil, err
	}
	return s, nil
}

// client builds a fresh go-mail client; one per delivery keeps concurrent
// sends independent.
func (s *SMTPSender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(s.cfg.Timeout),
	}
	if s.cfg.Port == ImplicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	c, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: smtp client: %w", err)
	}
	return c, nil
}

func (s *SMTPSender) SendResetCode(ctx context.Context, to, code string) error {
	msg, err := newResetMessage(s.cfg.FromName, s.cfg.Username, to, code, s.Now())
	if err != nil {
		return fmt.Errorf("mail: compose: %w", err)
	}

	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: deliver via %s: %w", s.cfg.Host, err)
	}
	return nil
}

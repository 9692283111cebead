package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPConfig holds the connection settings for the outbound relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c SMTPConfig) validate() error {
	if c.Host == "" || c.Port == "" || c.From == "" {
		return errors.New("mail: smtp host, port and from address are required")
	}
	return nil
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, msg.To, msg.Subject, msg.Body)

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, []byte(raw)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

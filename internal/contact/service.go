// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message is a structured outgoing mail.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers a message or returns an error. Implementations must not
// retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config controls where submissions go.
type Config struct {
	From     string
	To       string
	SiteName string
	// DryRun accepts valid submissions without sending anything.
	DryRun bool
}

// Service validates submissions and relays them through a Mailer.
type Service struct {
	mailer Mailer
	cfg    Config
}

// NewService creates a Service. mailer may be nil when cfg.DryRun is set.
func NewService(mailer Mailer, cfg Config) *Service {
	return &Service{mailer: mailer, cfg: cfg}
}

// DryRun reports whether the service discards valid submissions.
func (s *Service) DryRun() bool {
	return s.cfg.DryRun
}

// Submit validates f and sends one message. In dry-run mode a valid
// submission returns nil without sending.
func (s *Service) Submit(ctx context.Context, f Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f = f.Normalized()

	if s.cfg.DryRun {
		slog.Info("contact dry run, message not sent", "locale", f.Locale, "name_len", len(f.Name))
		return nil
	}
	if s.mailer == nil {
		return fmt.Errorf("contact submit: no mail transport configured")
	}

	if err := s.mailer.Send(ctx, s.message(f)); err != nil {
		return fmt.Errorf("contact submit: %w", err)
	}
	return nil
}

// message builds the mail sent to the sales inbox.
func (s *Service) message(f Form) Message {
	site := s.cfg.SiteName
	if site == "" {
		site = "website"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", f.Name)
	if f.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", f.Email)
	}
	if f.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", f.Phone)
	}
	fmt.Fprintf(&b, "Locale: %s\n\n", f.Locale)
	b.WriteString(f.Message)
	b.WriteString("\n")

	return Message{
		From:    s.cfg.From,
		To:      s.cfg.To,
		ReplyTo: f.Email,
		Subject: fmt.Sprintf("[%s] Contact request from %s", site, f.Name),
		Body:    b.String(),
	}
}

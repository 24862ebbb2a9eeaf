// Package mail delivers per-person performance reports over SMTP with the
// rendered charts attached.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	gomail "github.com/wneessen/go-mail"

	"github.com/leadlens-io/leadlens/internal/kpi"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  string
}

// DefaultSubject is used when no subject is configured. The date range is
// appended per message.
const DefaultSubject = "Your Sales Performance Report"

// Sender sends report mails.
type Sender struct {
	cfg    Config
	logger *slog.Logger
}

// NewSender creates a sender. Host, port, and from address are required.
func NewSender(cfg Config, logger *slog.Logger) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("email host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		if cfg.Username == "" {
			return nil, fmt.Errorf("email from address is required")
		}
		cfg.From = cfg.Username
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sender{cfg: cfg, logger: logger}, nil
}

// client builds an SMTP client with STARTTLS and optional plain auth.
func (s *Sender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	c, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return c, nil
}

// SendReport emails one person their report with chart attachments.
// chartPaths maps attachment file names to local paths; attachments that
// went missing on disk are skipped.
func (s *Sender) SendReport(ctx context.Context, to, personName, dateRange string, totals kpi.Totals, rates kpi.Rates, chartPaths map[string]string) error {
	body, err := RenderBody(BodyData{
		PersonName: personName,
		DateRange:  dateRange,
		Totals:     totals,
		Rates:      rates,
	})
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(fmt.Sprintf("%s - %s", s.cfg.Subject, dateRange))
	msg.SetBodyString(gomail.TypeTextHTML, body)

	// Stable attachment order keeps messages reproducible.
	names := make([]string, 0, len(chartPaths))
	for name := range chartPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := chartPaths[name]
		if _, err := os.Stat(path); err != nil {
			s.logger.Warn("skipping missing chart attachment", "path", path)
			continue
		}
		msg.AttachFile(path, gomail.WithFileName(name))
	}

	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report to %s: %w", to, err)
	}
	s.logger.Info("report sent", "to", to, "person", personName)
	return nil
}

// CheckConnection dials the SMTP server and authenticates without sending.
// Used by the doctor command.
func (s *Sender) CheckConnection(ctx context.Context) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}
	return c.Close()
}

package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/harborline/loanserve/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendOpsAlert notifies the operations mailbox. Used when an audit write
// fails after its mutation committed; skipped when no ops address is
// configured.
func (s *Sender) SendOpsAlert(subject, body string) error {
	if s.cfg.OpsAlertEmail == "" {
		s.logger.Warnf("Ops alert dropped (no OPS_ALERT_EMAIL configured): %s", subject)
		return nil
	}
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.OpsAlertEmail}
	e.Subject = fmt.Sprintf("[loanserve] %s", subject)
	e.Text = []byte(body)
	return s.send(e)
}

// SendPasswordReset sends a password-reset link to the user.
func (s *Sender) SendPasswordReset(to, name, token string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Password Reset Request"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"A password reset was requested for your account.\n"+
			"Reset link: %s/reset-password?token=%s\n\n"+
			"If you did not request this, you can ignore this email.\n"+
			"\nBest regards,\nLoan Servicing",
		name, s.cfg.AppBaseURL, token,
	)
	e.Text = []byte(body)
	return s.send(e)
}

// SendPayoffNotification tells a borrower their payoff statement is ready.
func (s *Sender) SendPayoffNotification(to, name string, loanNumber string, total float64, goodThrough time.Time) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your Payoff Statement Is Ready"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"A payoff statement has been generated for loan %s.\n"+
			"Total payoff amount: %.2f USD\n"+
			"Good through: %s\n\n"+
			"Log in to view the full breakdown and wire instructions.\n"+
			"\nBest regards,\nLoan Servicing",
		name, loanNumber, total, goodThrough.Format("2006-01-02"),
	)
	e.Text = []byte(body)
	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}

package mailer

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/config"
)

// SMTPMailer delivers over an authenticated STARTTLS connection to the
// configured relay, addressed to the operator mailbox.
type SMTPMailer struct {
	cfg config.Config
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, msg ContactMessage) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.MailAddress)
	mail.SetHeader("To", m.cfg.MailAddress)
	mail.SetHeader("Subject", "New Message")
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage:%s",
		msg.Name, msg.Email, msg.Phone, msg.Message)
	mail.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.MailAddress, m.cfg.MailPassword)
	if err := d.DialAndSend(mail); err != nil {
		log.Printf("mailer: send failed: %v", err)
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

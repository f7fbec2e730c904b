// Package mail sends transactional mail through a plain SMTP relay.  Its
// only current caller is the password-recovery flow.
package mail

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/vittahq/vitta-api/internal/config"
)

// Send delivers a plain-text message through the configured relay.  With
// SMTP_SECURE the connection starts TLS immediately (port 465 style);
// otherwise plain SMTP with optional STARTTLS negotiated by the server.
func Send(cfg config.Config, to, subject, body string) error {
	if cfg.SMTPHost == "" {
		return fmt.Errorf("mail: SMTP_HOST não configurado")
	}
	addr := net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort)
	from := cfg.SMTPUser

	var msg strings.Builder
	msg.WriteString("From: Academia Vitta <" + from + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	if cfg.SMTPSecure {
		return sendTLS(addr, cfg.SMTPHost, auth, from, to, []byte(msg.String()))
	}
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String()))
}

// sendTLS performs the delivery over an implicit-TLS connection, which
// net/smtp.SendMail does not support.
func sendTLS(addr, host string, auth smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// Package mail delivers the verification OTP and the password reset link.
// The Sender interface exists so auth handlers can be exercised without an
// SMTP server.
package mail

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type Sender interface {
	SendVerificationCode(to, name, code string) error
	SendPasswordReset(to, name, resetLink string) error
}

// SMTPSender sends through a STARTTLS-capable SMTP relay. Every send is
// bounded by Timeout, covering dial and all protocol reads/writes.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func NewSMTPSender(host, port, username, password, from string, timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Timeout:  timeout,
	}
}

func (s *SMTPSender) SendVerificationCode(to, name, code string) error {
	subject := "Your HostelBite verification code"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour verification code is %s. It expires in 10 minutes.\r\n\r\nHostelBite Canteen",
		name, code,
	)
	return s.send(to, subject, body)
}

func (s *SMTPSender) SendPasswordReset(to, name, resetLink string) error {
	subject := "Reset your HostelBite password"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nUse the link below to choose a new password. It expires in 1 hour.\r\n\r\n%s\r\n\r\nIf you did not ask for this, ignore this email.\r\n\r\nHostelBite Canteen",
		name, resetLink,
	)
	return s.send(to, subject, body)
}

func (s *SMTPSender) send(to, subject, body string) error {
	conn, err := net.DialTimeout("tcp", s.Host+":"+s.Port, s.Timeout)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(s.Timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return err
		}
	}

	if s.Username != "" {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(envelopeFrom(s.From)); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(BuildMessage(s.From, to, subject, body))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// BuildMessage assembles a minimal RFC 5322 plain-text message.
func BuildMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// envelopeFrom strips a display name, "Name <addr>" -> "addr".
func envelopeFrom(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}

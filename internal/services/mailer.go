package services

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer абстрагирует отправку почты (в тестах подменяется фейком)
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer отправляет письма через SMTP
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer создает SMTP-отправитель
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send отправляет одно HTML-письмо
// Без повторов: неотправленное письмо просто не засчитывается отправленным
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.host == "" {
		return fmt.Errorf("SMTP host is not configured")
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

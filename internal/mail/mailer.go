package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 同步发送，不重试。失败与否由调用方决定怎么处理
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var a smtp.Auth
	if m.Username != "" {
		a = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, a, m.From, []string{to}, []byte(msg))
}

// LogMailer 本地开发用：不真正发信，打到日志里
type LogMailer struct{ L *zap.Logger }

func (m *LogMailer) Send(to, subject, body string) error {
	m.L.Info("mail (not sent, smtp disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

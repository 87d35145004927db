package mailer

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends notification emails over SMTP. It is optional: with no host
// configured every Send is a no-op.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	logger   *zap.Logger
}

func New(host string, port int, username, password string, logger *zap.Logger) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password, logger: logger}
}

func (m *Mailer) Enabled() bool {
	return m.host != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

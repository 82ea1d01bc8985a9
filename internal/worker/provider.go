package worker

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"go.uber.org/zap"
)

// SMTPEmailProvider delivers email notifications over SMTP
type SMTPEmailProvider struct {
	host     string
	port     int
	user     string
	password string
	fromAddr string
}

// NewSMTPEmailProvider creates a new SMTP email provider
func NewSMTPEmailProvider(host string, port int, user, password, fromAddr string) *SMTPEmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		fromAddr: fromAddr,
	}
}

// Send sends an email via SMTP
func (p *SMTPEmailProvider) Send(ctx context.Context, recipient, subject, body string) error {
	message := fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\n\r\n%s",
		recipient,
		subject,
		body,
	)

	auth := smtp.PlainAuth("", p.user, p.password, p.host)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	if err := smtp.SendMail(addr, auth, p.fromAddr, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// LogSMSProvider is the SMS placeholder: no real gateway is wired, the code
// is written to the log instead.
type LogSMSProvider struct{}

// NewLogSMSProvider creates the logging SMS provider
func NewLogSMSProvider() *LogSMSProvider {
	return &LogSMSProvider{}
}

// Send logs the SMS instead of delivering it
func (p *LogSMSProvider) Send(ctx context.Context, recipient, subject, body string) error {
	zap.L().Info("[SMS]", zap.String("recipient", recipient), zap.String("body", body))
	return nil
}

// MockProvider records notifications for tests
type MockProvider struct {
	mu   sync.Mutex
	sent []Task
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Send records the notification instead of delivering it
func (p *MockProvider) Send(ctx context.Context, recipient, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, Task{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// Sent returns all recorded notifications
func (p *MockProvider) Sent() []Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Task, len(p.sent))
	copy(out, p.sent)
	return out
}

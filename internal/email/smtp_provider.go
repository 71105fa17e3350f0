package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   SMTPConfig
	dialer   *gomail.Dialer
	renderer *TemplateManager
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config SMTPConfig, renderer *TemplateManager) (*SMTPProvider, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.Port)
	}

	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}, nil
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	m := gomail.NewMessage()

	from := p.config.FromEmail
	if p.config.FromName != "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}

	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTemplate отправляет email по шаблону
func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendVerificationOTP отправляет письмо с кодом подтверждения email
func (p *SMTPProvider) SendVerificationOTP(to, name, otp, url string) error {
	return p.SendTemplate(
		[]string{to},
		"Your email verification code (valid for 24 hours)",
		"email_verification",
		TemplateData{"Name": name, "OTP": otp, "URL": url},
	)
}

// SendPasswordReset отправляет письмо со ссылкой сброса пароля
func (p *SMTPProvider) SendPasswordReset(to, name, resetURL string) error {
	return p.SendTemplate(
		[]string{to},
		"Your password reset token (valid for 10 minutes)",
		"password_reset",
		TemplateData{"Name": name, "ResetURL": resetURL},
	)
}

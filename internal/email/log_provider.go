package email

import "github.com/RoberSamy04/natours/internal/logger"

// LogProvider пишет письма в лог вместо отправки.
// Используется в development без настроенного SMTP и в тестах.
type LogProvider struct {
	renderer *TemplateManager
}

func NewLogProvider(renderer *TemplateManager) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("Email (not sent, log provider)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if _, err := p.renderer.Render(templateName, data); err != nil {
		return err
	}
	logger.Info("Email (not sent, log provider)",
		"to", to,
		"subject", subject,
		"template", templateName,
		"data", data,
	)
	return nil
}

func (p *LogProvider) SendVerificationOTP(to, name, otp, url string) error {
	return p.SendTemplate([]string{to}, "Your email verification code (valid for 24 hours)", "email_verification", TemplateData{
		"Name": name,
		"OTP":  otp,
		"URL":  url,
	})
}

func (p *LogProvider) SendPasswordReset(to, name, resetURL string) error {
	return p.SendTemplate([]string{to}, "Your password reset token (valid for 10 minutes)", "password_reset", TemplateData{
		"Name":     name,
		"ResetURL": resetURL,
	})
}

package email

// Email представляет структуру email сообщения
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendTemplate отправляет email по шаблону
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// SendVerificationOTP отправляет письмо с кодом подтверждения email
	SendVerificationOTP(to, name, otp, url string) error

	// SendPasswordReset отправляет письмо со ссылкой сброса пароля
	SendPasswordReset(to, name, resetURL string) error
}

package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TemplateManager управляет html-шаблонами писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с встроенными шаблонами по умолчанию.
// Шаблоны из директории (если она есть) перекрывают встроенные.
func NewTemplateManager(dirPath string) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}

	if dirPath != "" {
		if _, err := os.Stat(dirPath); err == nil {
			if err := tm.LoadTemplates(dirPath); err != nil {
				return nil, err
			}
		}
	}

	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates загружает шаблоны из директории
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

var builtinTemplates = map[string]string{
	"email_verification": `
<h2>Welcome to Natours, {{.Name}}!</h2>
<p>Please confirm your email address with this code:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.OTP}}</p>
<p>The code is valid for 24 hours. Enter it at <a href="{{.URL}}">{{.URL}}</a>.</p>
<p>If you didn't sign up, please ignore this email.</p>`,

	"password_reset": `
<h2>Hi {{.Name}},</h2>
<p>Forgot your password? Submit a PATCH request with your new password and
passwordConfirm to:</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
<p>The link is valid for 10 minutes. If you didn't forget your password,
please ignore this email!</p>`,
}

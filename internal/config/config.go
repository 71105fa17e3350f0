package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		// URI содержит плейсхолдер <PASSWORD>, который заменяется
		// значением Password при загрузке конфига.
		URI      string `yaml:"uri"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	JWT struct {
		Secret           string `yaml:"secret"`
		TTL              int    `yaml:"ttl"`                // minutes
		CookieExpiresDay int    `yaml:"cookie_expires_day"` // days
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Stripe struct {
		SecretKey string `yaml:"secret_key"`
	} `yaml:"stripe"`

	Upload struct {
		BasePath     string `yaml:"base_path"`
		ImageQuality int    `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию: .env -> переменные окружения -> config.yaml.
// Переменные окружения имеют приоритет над yaml файлом.
func LoadConfig() {
	var cfg Config

	// .env может отсутствовать (docker/CI задают окружение напрямую)
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			f.Close()
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
		f.Close()
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	// Подстановка пароля БД в URI
	cfg.Database.URI = strings.Replace(cfg.Database.URI, "<PASSWORD>", cfg.Database.Password, 1)

	AppConfig = &cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Env, "NODE_ENV")

	setString(&cfg.Database.URI, "DATABASE_URI")
	setString(&cfg.Database.Password, "DATABASE_PASSWORD")
	setString(&cfg.Database.Name, "DATABASE_NAME")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_EXPIRES_IN_MIN")
	setInt(&cfg.JWT.CookieExpiresDay, "JWT_COOKIE_EXPIRES_IN")

	setString(&cfg.Email.SMTPHost, "EMAIL_HOST")
	setInt(&cfg.Email.SMTPPort, "EMAIL_PORT")
	setString(&cfg.Email.SMTPUsername, "EMAIL_USERNAME")
	setString(&cfg.Email.SMTPPassword, "EMAIL_PASSWORD")
	setString(&cfg.Email.FromEmail, "EMAIL_FROM")

	setString(&cfg.Stripe.SecretKey, "STRIPE_SECRET_KEY")

	setString(&cfg.Upload.BasePath, "UPLOAD_BASE_PATH")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "natours"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 90 * 24 * 60 // 90 days, in minutes
	}
	if cfg.JWT.CookieExpiresDay == 0 {
		cfg.JWT.CookieExpiresDay = 90
	}
	if cfg.Email.TemplatesDir == "" {
		cfg.Email.TemplatesDir = "web/email"
	}
	if cfg.Upload.BasePath == "" {
		cfg.Upload.BasePath = "public/img"
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 90
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// IsProduction сообщает, работает ли приложение в production режиме.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Package config maps environment variables into per-service configuration
// structs. Each struct is parsed once in main and read-only afterwards; the
// Secrets method feeds the startup integrity gate so no service boots on
// placeholder credentials.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Auth configures the issuing service.
type Auth struct {
	Addr           string `env:"AUTH_ADDR" envDefault:":8081"`
	DatabaseURL    string `env:"DATABASE_URL"`
	AllowedOrigins string `env:"APP_CORS_ALLOWED_ORIGINS"`

	JWTSecret          string `env:"APP_JWT_SECRET"`
	JWTLifetimeSeconds int64  `env:"APP_JWT_EXPIRATION_SECONDS" envDefault:"3600"`

	DemoEmail    string `env:"APP_DEMO_USER_EMAIL" envDefault:"demo@example.com"`
	DemoPassword string `env:"APP_DEMO_USER_PASSWORD"`
	DemoRole     string `env:"APP_DEMO_USER_ROLE" envDefault:"user"`

	AuditURL       string `env:"AUDIT_URL" envDefault:"http://localhost:8082"`
	AuditKey       string `env:"AUDIT_API_KEY"`
	AuditTimeoutMS int64  `env:"AUDIT_TIMEOUT_MS" envDefault:"2000"`
}

// Secrets lists the credentials the integrity gate must accept before the
// service starts. The demo email is deliberately absent: it is an account
// identifier, not a credential. DATABASE_URL is optional (blank selects the
// in-memory store) but still gated against placeholders when set.
func (c Auth) Secrets() map[string]string {
	secrets := map[string]string{
		"APP_JWT_SECRET":         c.JWTSecret,
		"APP_DEMO_USER_PASSWORD": c.DemoPassword,
		"AUDIT_API_KEY":          c.AuditKey,
	}
	if c.DatabaseURL != "" {
		secrets["DATABASE_URL"] = c.DatabaseURL
	}
	return secrets
}

// Audit configures the audit sink.
type Audit struct {
	Addr           string `env:"AUDIT_ADDR" envDefault:":8082"`
	DatabaseURL    string `env:"DATABASE_URL"`
	AllowedOrigins string `env:"APP_CORS_ALLOWED_ORIGINS"`

	JWTSecret string `env:"APP_JWT_SECRET"`
	AuditKey  string `env:"AUDIT_API_KEY"`
}

func (c Audit) Secrets() map[string]string {
	secrets := map[string]string{
		"APP_JWT_SECRET": c.JWTSecret,
		"AUDIT_API_KEY":  c.AuditKey,
	}
	if c.DatabaseURL != "" {
		secrets["DATABASE_URL"] = c.DatabaseURL
	}
	return secrets
}

// Mailer configures the mail delivery service.
type Mailer struct {
	Addr      string `env:"MAILER_ADDR" envDefault:":8083"`
	MailerKey string `env:"MAILER_API_KEY"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

func (c Mailer) Secrets() map[string]string {
	return map[string]string{
		"MAILER_API_KEY": c.MailerKey,
		"SMTP_HOST":      c.SMTPHost,
		"SMTP_USERNAME":  c.SMTPUsername,
		"SMTP_PASSWORD":  c.SMTPPassword,
		"SMTP_FROM":      c.SMTPFrom,
	}
}

// Notify configures the SMS notification service.
type Notify struct {
	Addr      string `env:"NOTIFY_ADDR" envDefault:":8084"`
	NotifyKey string `env:"NOTIFY_API_KEY"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `env:"TWILIO_FROM_NUMBER"`
	TwilioTimeoutMS   int64  `env:"TWILIO_TIMEOUT_MS" envDefault:"5000"`
	TwilioCallbackURL string `env:"TWILIO_STATUS_CALLBACK_URL"`
}

func (c Notify) Secrets() map[string]string {
	return map[string]string{
		"NOTIFY_API_KEY":     c.NotifyKey,
		"TWILIO_ACCOUNT_SID": c.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":  c.TwilioAuthToken,
		"TWILIO_FROM_NUMBER": c.TwilioFromNumber,
	}
}

// Gateway configures the API front service.
type Gateway struct {
	Addr           string `env:"GATEWAY_ADDR" envDefault:":8080"`
	AllowedOrigins string `env:"APP_CORS_ALLOWED_ORIGINS"`

	JWTSecret string `env:"APP_JWT_SECRET"`

	MailerURL       string `env:"MAILER_URL" envDefault:"http://localhost:8083/send"`
	MailerKey       string `env:"MAILER_API_KEY"`
	MailerTimeoutMS int64  `env:"MAILER_TIMEOUT_MS" envDefault:"5000"`

	NotifyURL       string `env:"NOTIFY_URL" envDefault:"http://localhost:8084/notify"`
	NotifyKey       string `env:"NOTIFY_API_KEY"`
	NotifyTimeoutMS int64  `env:"NOTIFY_TIMEOUT_MS" envDefault:"5000"`

	AuditURL       string `env:"AUDIT_URL" envDefault:"http://localhost:8082"`
	AuditKey       string `env:"AUDIT_API_KEY"`
	AuditTimeoutMS int64  `env:"AUDIT_TIMEOUT_MS" envDefault:"2000"`
}

func (c Gateway) Secrets() map[string]string {
	return map[string]string{
		"APP_JWT_SECRET": c.JWTSecret,
		"MAILER_API_KEY": c.MailerKey,
		"NOTIFY_API_KEY": c.NotifyKey,
		"AUDIT_API_KEY":  c.AuditKey,
	}
}

// Load parses environment variables into the requested config struct.
func Load[T any]() (T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration for the gateway. Values come from
// the environment (optionally a yaml file) with local-development fallbacks.
type Config struct {
	Port        int
	Environment string
	APIKey      string

	DatabaseURL string
	RedisAddr   string

	SMTP   SMTPConfig
	CHES   CHESConfig
	Twilio TwilioConfig
	Resend ResendConfig

	// Delivery defaults, overridable per request via headers.
	EmailAdapter string
	SMSAdapter   string

	DefaultTemplateEngine string
	DefaultSubject        string
	DefaultFromEmail      string
	DefaultFromNumber     string

	// Upstream GC Notify API used in passthrough mode.
	GCNotifyBaseURL string

	OTLPEndpoint string
	SeedDemoData bool
}

type SMTPConfig struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
}

type CHESConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	From         string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type ResendConfig struct {
	APIKey string
	From   string
}

// Load reads configuration from the environment. A config file path may be
// supplied for local development; it is optional and env vars always win.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetDefault("PORT", 3000)
	v.SetDefault("NODE_ENV", "development")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 1025)
	v.SetDefault("SMTP_FROM", "noreply@localhost")
	v.SetDefault("EMAIL_ADAPTER", "smtp")
	v.SetDefault("SMS_ADAPTER", "twilio")
	v.SetDefault("DEFAULT_TEMPLATE_ENGINE", "jinja2")
	v.SetDefault("DEFAULT_SUBJECT", "Notification")
	v.SetDefault("DEFAULT_FROM_EMAIL", "noreply@localhost")
	v.SetDefault("DEFAULT_FROM_NUMBER", "+15551234567")

	cfg := &Config{
		Port:        v.GetInt("PORT"),
		Environment: v.GetString("NODE_ENV"),
		APIKey:      v.GetString("API_KEY"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		SMTP: SMTPConfig{
			Host:   v.GetString("SMTP_HOST"),
			Port:   v.GetInt("SMTP_PORT"),
			Secure: v.GetBool("SMTP_SECURE"),
			User:   v.GetString("SMTP_USER"),
			Pass:   v.GetString("SMTP_PASS"),
			From:   v.GetString("SMTP_FROM"),
		},
		CHES: CHESConfig{
			BaseURL:      v.GetString("CHES_BASE_URL"),
			ClientID:     v.GetString("CHES_CLIENT_ID"),
			ClientSecret: v.GetString("CHES_CLIENT_SECRET"),
			TokenURL:     v.GetString("CHES_TOKEN_URL"),
			From:         v.GetString("CHES_FROM"),
		},
		Twilio: TwilioConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
		},
		Resend: ResendConfig{
			APIKey: v.GetString("RESEND_API_KEY"),
			From:   v.GetString("RESEND_FROM"),
		},
		EmailAdapter:          v.GetString("EMAIL_ADAPTER"),
		SMSAdapter:            v.GetString("SMS_ADAPTER"),
		DefaultTemplateEngine: v.GetString("DEFAULT_TEMPLATE_ENGINE"),
		DefaultSubject:        v.GetString("DEFAULT_SUBJECT"),
		DefaultFromEmail:      v.GetString("DEFAULT_FROM_EMAIL"),
		DefaultFromNumber:     v.GetString("DEFAULT_FROM_NUMBER"),
		GCNotifyBaseURL:       v.GetString("GC_NOTIFY_BASE_URL"),
		OTLPEndpoint:          v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SeedDemoData:          v.GetBool("SEED_DEMO_DATA"),
	}

	return cfg, nil
}

// FromFor returns the configured from-address for a concrete email adapter
// key, falling back to the static default.
func (c *Config) FromFor(adapterKey string) string {
	switch adapterKey {
	case "smtp":
		if c.SMTP.From != "" {
			return c.SMTP.From
		}
	case "ches":
		if c.CHES.From != "" {
			return c.CHES.From
		}
	case "resend":
		if c.Resend.From != "" {
			return c.Resend.From
		}
	}
	return c.DefaultFromEmail
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	HTTPPort int `mapstructure:"HTTP_PORT"`

	QnAURL            string        `mapstructure:"QNA_URL"`
	QnATimeout        time.Duration `mapstructure:"QNA_TIMEOUT"`
	ClassifierURL     string        `mapstructure:"CLASSIFIER_URL"`
	ClassifierTimeout time.Duration `mapstructure:"CLASSIFIER_TIMEOUT"`

	CardPaymentLimitRaw    string `mapstructure:"CARD_PAYMENT_LIMIT"`
	DueDateHorizonDays     int    `mapstructure:"DUE_DATE_HORIZON_DAYS"`
	DefaultCardAccount     string `mapstructure:"DEFAULT_CARD_ACCOUNT"`
	DefaultCheckingAccount string `mapstructure:"DEFAULT_CHECKING_ACCOUNT"`

	SessionBackend     string        `mapstructure:"SESSION_BACKEND"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	RedisSessionPrefix string        `mapstructure:"REDIS_SESSION_PREFIX"`
	SessionTTL         time.Duration `mapstructure:"SESSION_TTL"`

	KafkaEnabled            bool   `mapstructure:"KAFKA_ENABLED"`
	KafkaBrokerURL          string `mapstructure:"KAFKA_BROKER_URL"`
	KafkaPaymentEventsTopic string `mapstructure:"KAFKA_PAYMENT_EVENTS_TOPIC"`

	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
	OutboxPollTimeout  time.Duration `mapstructure:"OUTBOX_POLL_TIMEOUT"`
	OutboxMaxAttempts  int           `mapstructure:"OUTBOX_MAX_ATTEMPTS"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	FAQDir   string `mapstructure:"FAQ_DIR"`
	FAQFiles string `mapstructure:"FAQ_FILES"`

	cardPaymentLimit decimal.Decimal
}

var defaults = map[string]any{
	"HTTP_PORT":                  8089,
	"QNA_URL":                    "http://localhost:8807",
	"QNA_TIMEOUT":                "30s",
	"CLASSIFIER_URL":             "http://localhost:8800",
	"CLASSIFIER_TIMEOUT":         "30s",
	"CARD_PAYMENT_LIMIT":         "5000",
	"DUE_DATE_HORIZON_DAYS":      30,
	"DEFAULT_CARD_ACCOUNT":       "CC_ACC234",
	"DEFAULT_CHECKING_ACCOUNT":   "CHECKING_ACC234",
	"SESSION_BACKEND":            SessionBackendMemory,
	"REDIS_URL":                  "",
	"REDIS_SESSION_PREFIX":       "cardbot",
	"SESSION_TTL":                "24h",
	"KAFKA_ENABLED":              false,
	"KAFKA_BROKER_URL":           "localhost:9092",
	"KAFKA_PAYMENT_EVENTS_TOPIC": "card_bot_payment_events",
	"OUTBOX_POLL_INTERVAL":       "1s",
	"OUTBOX_POLL_TIMEOUT":        "500ms",
	"OUTBOX_MAX_ATTEMPTS":        5,
	"CORS_ALLOWED_ORIGINS":       "",
	"FAQ_DIR":                    "qnas",
	"FAQ_FILES": strings.Join([]string{
		"samsung-pay-faqs.json",
		"apple-pay-faqs.json",
		"balance-transfers-faqs.json",
		"dispute-faqs.json",
		"business-credit-card-faqs.json",
		"lost-stolen-card-faqs.json",
	}, ","),
}

// LoadConfig reads settings from the environment and an optional .env file in
// the working directory. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	return load(".")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	limit, err := decimal.NewFromString(strings.TrimSpace(c.CardPaymentLimitRaw))
	if err != nil {
		return fmt.Errorf("invalid CARD_PAYMENT_LIMIT %q: %w", c.CardPaymentLimitRaw, err)
	}
	if !limit.IsPositive() {
		return fmt.Errorf("CARD_PAYMENT_LIMIT must be positive, got %s", limit)
	}
	c.cardPaymentLimit = limit

	if c.DueDateHorizonDays <= 0 {
		return fmt.Errorf("DUE_DATE_HORIZON_DAYS must be positive, got %d", c.DueDateHorizonDays)
	}

	if c.OutboxMaxAttempts <= 0 {
		return fmt.Errorf("OUTBOX_MAX_ATTEMPTS must be positive, got %d", c.OutboxMaxAttempts)
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

func (c *Config) CardPaymentLimit() decimal.Decimal {
	return c.cardPaymentLimit
}

func (c *Config) GetKafkaBrokers() []string {
	return splitList(c.KafkaBrokerURL)
}

func (c *Config) GetFAQFiles() []string {
	return splitList(c.FAQFiles)
}

// GetCORSAllowedOrigins is empty unless CORS_ALLOWED_ORIGINS is set.
func (c *Config) GetCORSAllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

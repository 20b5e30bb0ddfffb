package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8089, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8807", cfg.QnAURL)
	assert.Equal(t, 30*time.Second, cfg.QnATimeout)
	assert.True(t, cfg.CardPaymentLimit().Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 30, cfg.DueDateHorizonDays)
	assert.Equal(t, "CC_ACC234", cfg.DefaultCardAccount)
	assert.Equal(t, "CHECKING_ACC234", cfg.DefaultCheckingAccount)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.GetKafkaBrokers())
	assert.Len(t, cfg.GetFAQFiles(), 6)
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.Empty(t, cfg.GetCORSAllowedOrigins())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CARD_PAYMENT_LIMIT", "2500.50")
	t.Setenv("QNA_TIMEOUT", "5s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKER_URL", "k1:9092, k2:9092")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://bank.example, http://localhost:5173")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.True(t, cfg.CardPaymentLimit().Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, 5*time.Second, cfg.QnATimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.GetKafkaBrokers())
	assert.Equal(t, 2, cfg.OutboxMaxAttempts)
	assert.Equal(t, []string{"https://bank.example", "http://localhost:5173"}, cfg.GetCORSAllowedOrigins())
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEFAULT_CARD_ACCOUNT=CC_ACC123\n"), 0o600))

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, "CC_ACC123", cfg.DefaultCardAccount)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad limit":       {"CARD_PAYMENT_LIMIT": "lots"},
		"negative limit":  {"CARD_PAYMENT_LIMIT": "-1"},
		"zero horizon":    {"DUE_DATE_HORIZON_DAYS": "0"},
		"redis no url":    {"SESSION_BACKEND": "redis"},
		"unknown backend": {"SESSION_BACKEND": "etcd"},
		"zero attempts":   {"OUTBOX_MAX_ATTEMPTS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := load(t.TempDir())
			assert.Error(t, err)
		})
	}
}

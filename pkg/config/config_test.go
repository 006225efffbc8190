package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "6mo", cfg.Market.Range)
	assert.Equal(t, "1d", cfg.Market.Interval)
	assert.Equal(t, "gunluk_rapor.pdf", cfg.Report.PDFPath)
	assert.Equal(t, 5, cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.Database.MaxConnLifetime)
	assert.Equal(t, "Europe/Istanbul", cfg.Schedule.Timezone)
}

func TestLoad_OptionalConsumers(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)

	// Missing store / chat configuration disables the consumer,
	// it never fails the load.
	assert.False(t, cfg.PersistenceEnabled())
	assert.False(t, cfg.NotificationEnabled())
}

func TestLoad_NotificationNeedsBothCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.NotificationEnabled())

	t.Setenv("CHAT_ID", "-100200300")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.NotificationEnabled())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKET_RANGE", "1y")
	t.Setenv("MARKET_RATE_LIMIT", "2")
	t.Setenv("SCHEDULE_CRON", "0 0 19 * * 1-5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "1y", cfg.Market.Range)
	assert.Equal(t, 2, cfg.Market.RateLimit)
	assert.Equal(t, "0 0 19 * * 1-5", cfg.Schedule.Cron)
}

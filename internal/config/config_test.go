package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SLA_WARNING_WINDOW", "")
	t.Setenv("RATE_LIMIT_BURST", "many")

	cfg := LoadConfig()

	require.Equal(t, 24*time.Hour, cfg.SLAWarningWindow)
	require.Equal(t, 6*time.Hour, cfg.SLACriticalWindow)
	require.Equal(t, 20, cfg.RateLimitBurst)
	require.Equal(t, 6*time.Hour, cfg.SLAThresholds().Critical)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SLA_WARNING_WINDOW", "12h")
	t.Setenv("SLA_CRITICAL_WINDOW", "2h")
	t.Setenv("AUTO_REPORT_ON_COMPLETE", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadConfig()

	require.Equal(t, 12*time.Hour, cfg.SLAThresholds().Warning)
	require.Equal(t, 2*time.Hour, cfg.SLAThresholds().Critical)
	require.True(t, cfg.AutoReportOnComplete)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestParseList_Empty(t *testing.T) {
	require.Nil(t, parseList(" , "))
	require.Nil(t, parseList(""))
}

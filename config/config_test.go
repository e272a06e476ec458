package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/on-the-ground/effect_ive_analytics/config"
	"github.com/on-the-ground/effect_ive_analytics/effects"
	"github.com/on-the-ground/effect_ive_analytics/effects/binding"
	"github.com/on-the-ground/effect_ive_analytics/effects/configkeys"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "analytics.yaml", `
log:
  level: debug
analytics:
  async:
    num_workers: 2
  prometheus:
    enabled: true
    namespace: counterapp
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, 2, cfg.Analytics.Async.NumWorkers)
	assert.Equal(t, 64, cfg.Analytics.Async.BufferSize)
	assert.True(t, cfg.Analytics.Prometheus.Enabled)
	assert.Equal(t, "counterapp", cfg.Analytics.Prometheus.Namespace)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeFile(t, "analytics.yaml", "log:\n  level: debug\n")
	t.Setenv("EFFECT_IVE_LOG_LEVEL", "warn")
	t.Setenv("EFFECT_IVE_ANALYTICS_NATS_ENABLED", "true")
	t.Setenv("EFFECT_IVE_ANALYTICS_NATS_SUBJECT", "counter.analytics")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Analytics.NATS.Enabled)
	assert.Equal(t, "counter.analytics", cfg.Analytics.NATS.Subject)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "EFFECT_IVE_ANALYTICS_ASYNC_BUFFER_SIZE"
	t.Cleanup(func() { os.Unsetenv(key) })
	envFile := writeFile(t, ".env", key+"=128\n")

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Analytics.Async.BufferSize)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrReadFile)

	_, err = config.Load(writeFile(t, "bad.yaml", "log: [unterminated"))
	assert.ErrorIs(t, err, config.ErrParseFile)

	_, err = config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadEnvFile)

	t.Setenv("EFFECT_IVE_ANALYTICS_ASYNC_NUM_WORKERS", "many")
	_, err = config.Load("")
	assert.ErrorIs(t, err, config.ErrParseEnv)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	cfg.Log.Encoding = "xml"
	cfg.Analytics.Async.NumWorkers = 0
	cfg.Analytics.NATS.Enabled = true
	cfg.Analytics.NATS.URL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestBindingMap_ServesBindingEffect(t *testing.T) {
	cfg := config.Default()
	cfg.Analytics.Async.NumWorkers = 7

	ctx, end := binding.WithEffectHandler(context.Background(), effects.NewEffectScopeConfig(1, 1), cfg.BindingMap())
	defer end()

	assert.Equal(t, 7, binding.GetOrDefault(ctx, configkeys.ConfigAnalyticsAsyncNumWorkers, 1))
	assert.Equal(t, "analytics.events", binding.GetOrDefault(ctx, configkeys.ConfigAnalyticsNATSSubject, ""))
	assert.Equal(t, true, binding.GetOrDefault(ctx, configkeys.ConfigAnalyticsSinksConsole, false))
}

func TestLogger_BuildsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Encoding = "json"
	cfg.Log.Level = "warn"

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))
}

// Package config loads runtime settings for the analytics stack.
//
// Settings come from three layers, later ones winning: built-in defaults,
// an optional YAML file and environment variables (a .env file is loaded
// into the environment first). The result is handed to the binding effect
// through BindingMap, so components look settings up by configkeys.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/on-the-ground/effect_ive_analytics/effects/configkeys"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "EFFECT_IVE_"

var (
	ErrReadFile    = errors.New("failed to read config file")
	ErrParseFile   = errors.New("failed to parse config file")
	ErrParseEnv    = errors.New("failed to parse environment")
	ErrInvalid     = errors.New("invalid config")
	ErrLoadEnvFile = errors.New("failed to load env file")
)

type Config struct {
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Analytics AnalyticsConfig `yaml:"analytics" envPrefix:"ANALYTICS_"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`
	Encoding   string `yaml:"encoding" env:"ENCODING"`
	BufferSize int    `yaml:"buffer_size" env:"BUFFER_SIZE"`
}

type AnalyticsConfig struct {
	Async      AsyncConfig      `yaml:"async" envPrefix:"ASYNC_"`
	Console    bool             `yaml:"console" env:"CONSOLE"`
	Zap        bool             `yaml:"zap" env:"ZAP"`
	Prometheus PrometheusConfig `yaml:"prometheus" envPrefix:"PROMETHEUS_"`
	NATS       NATSConfig       `yaml:"nats" envPrefix:"NATS_"`
}

type AsyncConfig struct {
	BufferSize int `yaml:"buffer_size" env:"BUFFER_SIZE"`
	NumWorkers int `yaml:"num_workers" env:"NUM_WORKERS"`
}

type PrometheusConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

type NATSConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	URL     string `yaml:"url" env:"URL"`
	Subject string `yaml:"subject" env:"SUBJECT"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Encoding:   "console",
			BufferSize: 16,
		},
		Analytics: AnalyticsConfig{
			Async: AsyncConfig{
				BufferSize: 64,
				NumWorkers: 4,
			},
			Console: true,
			Prometheus: PrometheusConfig{
				Namespace: "effect_ive",
			},
			NATS: NATSConfig{
				URL:     "nats://127.0.0.1:4222",
				Subject: "analytics.events",
			},
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. envFiles are loaded into the
// environment first; without any, a .env in the working directory is used
// if present.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", ErrParseFile, path, err)
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrLoadEnvFile, err)
		}
	} else {
		// a missing default .env is fine
		_ = godotenv.Load()
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if _, lerr := zapcore.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: log.level: %w", ErrInvalid, lerr))
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		err = multierr.Append(err, fmt.Errorf("%w: log.encoding must be console or json, got %q", ErrInvalid, c.Log.Encoding))
	}
	if c.Log.BufferSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: log.buffer_size must be positive", ErrInvalid))
	}
	if c.Analytics.Async.BufferSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: analytics.async.buffer_size must be positive", ErrInvalid))
	}
	if c.Analytics.Async.NumWorkers <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: analytics.async.num_workers must be positive", ErrInvalid))
	}
	if c.Analytics.NATS.Enabled {
		if c.Analytics.NATS.URL == "" {
			err = multierr.Append(err, fmt.Errorf("%w: analytics.nats.url is required when nats is enabled", ErrInvalid))
		}
		if c.Analytics.NATS.Subject == "" {
			err = multierr.Append(err, fmt.Errorf("%w: analytics.nats.subject is required when nats is enabled", ErrInvalid))
		}
	}
	return err
}

// BindingMap flattens the config for binding.WithEffectHandler.
func (c Config) BindingMap() map[string]any {
	return map[string]any{
		configkeys.ConfigEffectLogLevel:               c.Log.Level,
		configkeys.ConfigEffectLogEncoding:            c.Log.Encoding,
		configkeys.ConfigEffectLogHandlerBufferSize:   c.Log.BufferSize,
		configkeys.ConfigAnalyticsAsyncBufferSize:     c.Analytics.Async.BufferSize,
		configkeys.ConfigAnalyticsAsyncNumWorkers:     c.Analytics.Async.NumWorkers,
		configkeys.ConfigAnalyticsSinksConsole:        c.Analytics.Console,
		configkeys.ConfigAnalyticsSinksZap:            c.Analytics.Zap,
		configkeys.ConfigAnalyticsPrometheusEnabled:   c.Analytics.Prometheus.Enabled,
		configkeys.ConfigAnalyticsPrometheusNamespace: c.Analytics.Prometheus.Namespace,
		configkeys.ConfigAnalyticsNATSEnabled:         c.Analytics.NATS.Enabled,
		configkeys.ConfigAnalyticsNATSURL:             c.Analytics.NATS.URL,
		configkeys.ConfigAnalyticsNATSSubject:         c.Analytics.NATS.Subject,
	}
}

// Logger builds the process logger described by c.Log.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Encoding == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = c.Log.Encoding
	return zc.Build()
}

package catalogd

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Config is the daemon configuration.
type Config struct {
	Listen    string
	LogLevel  slog.Level
	LogFormat string
	Poller    PollerConfig
}

// LoadConfig reads catalogd.yaml from the given directories (or "." and
// "config"), then CATALOGD_* environment overrides.
func LoadConfig(dirs ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("catalogd")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{".", "config"}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("CATALOGD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", "localhost:3000")
	v.SetDefault("servers_file", "./servers.toml")
	v.SetDefault("poll.interval", DefaultInterval)
	v.SetDefault("poll.retry", DefaultRetryInterval)
	v.SetDefault("poll.concurrency", DefaultConcurrency)
	v.SetDefault("poll.rate", DefaultRate)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("force_ipv4", false)

	// The config file is optional, but one that exists must parse.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read catalogd config: %w", err)
		}
	}

	cfg := Config{
		Listen:    strings.TrimSpace(v.GetString("listen")),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		Poller: PollerConfig{
			ServersFile:   strings.TrimSpace(v.GetString("servers_file")),
			Interval:      v.GetDuration("poll.interval"),
			RetryInterval: v.GetDuration("poll.retry"),
			Concurrency:   v.GetInt("poll.concurrency"),
			Rate:          v.GetFloat64("poll.rate"),
			ForceIPv4:     v.GetBool("force_ipv4"),
		},
	}

	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return Config{}, fmt.Errorf("invalid listen %q: %w", cfg.Listen, err)
	}
	if cfg.Poller.ServersFile == "" {
		return Config{}, fmt.Errorf("servers_file must not be empty")
	}
	if cfg.Poller.Interval <= 0 {
		return Config{}, fmt.Errorf("poll.interval must be > 0 (got %s)", cfg.Poller.Interval)
	}
	if cfg.Poller.RetryInterval <= 0 {
		return Config{}, fmt.Errorf("poll.retry must be > 0 (got %s)", cfg.Poller.RetryInterval)
	}
	if cfg.Poller.Concurrency <= 0 {
		return Config{}, fmt.Errorf("poll.concurrency must be > 0 (got %d)", cfg.Poller.Concurrency)
	}
	if cfg.Poller.Rate <= 0 {
		return Config{}, fmt.Errorf("poll.rate must be > 0 (got %v)", cfg.Poller.Rate)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("log.format must be text or json (got %q)", cfg.LogFormat)
	}
	level, err := parseLevel(v.GetString("log.level"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	return cfg, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid log.level %q", raw)
	}
	return level, nil
}

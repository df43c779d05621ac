package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/app"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/backend"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
)

// DefaultURL is written to a freshly created config file.
const DefaultURL = "http://localhost:3000"

// envPrefix namespaces every environment override, e.g. SERVERLIST_URL.
const envPrefix = "SERVERLIST_"

// Config is the resolved runtime configuration of the client.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the YAML file the catalog url was read from or written to.
	File string
	// Flags records the final value of every option, keyed by flag name.
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// environment holds SERVERLIST_* variables with the prefix stripped and the
// key lowercased.
type environment map[string]string

func newEnvironment(environ []string) environment {
	env := make(environment)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		env[strings.ToLower(strings.TrimPrefix(key, envPrefix))] = value
	}
	return env
}

// value parses the override for key, keeping fallback when it is unset,
// blank or malformed.
func value[T any](env environment, key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(env[key])
	if raw == "" {
		return fallback
	}
	parsed, err := parse(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func (e environment) str(key, fallback string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return fallback
}

func (e environment) integer(key string, fallback int) int {
	return value(e, key, fallback, strconv.Atoi)
}

func (e environment) boolean(key string, fallback bool) bool {
	return value(e, key, fallback, strconv.ParseBool)
}

func (e environment) duration(key string, fallback time.Duration) time.Duration {
	return value(e, key, fallback, time.ParseDuration)
}

// Load reads os.Args and the process environment.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// MustLoad returns configuration or exits with status 2.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// LoadArgs resolves options with flags taking precedence over SERVERLIST_*
// variables. The catalog url falls back to the YAML config file when
// neither supplies one.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := newEnvironment(environ)
	fs := flag.NewFlagSet("serverlist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cfg      Config
		ordering string
	)
	fs.StringVar(&cfg.File, "config", env.str("config", "config.yml"), "path to the YAML config file holding the catalog url")
	fs.StringVar(&cfg.App.CatalogURL, "url", env.str("url", ""), "catalog base url (overrides the config file)")
	fs.DurationVar(&cfg.App.RefreshInterval, "interval", env.duration("interval", backend.DefaultInterval), "delay between catalog refreshes")
	fs.DurationVar(&cfg.App.FetchTimeout, "fetch-timeout", env.duration("fetch_timeout", backend.DefaultFetchTimeout), "deadline for a single catalog fetch")
	fs.StringVar(&ordering, "ordering", env.str("ordering", catalog.ByPopulationDesc.Wire()), "initial ordering (Player or PlayerReverse)")
	fs.StringVar(&cfg.App.TransferCommand, "transfer-cmd", env.str("transfer_cmd", ""), "command run on transfer; {ip}, {port} and {addr} are substituted (empty copies the address to the clipboard)")
	fs.IntVar(&cfg.App.Width, "width", env.integer("width", 0), "viewport width in cells (0 follows the terminal)")
	fs.IntVar(&cfg.App.Height, "height", env.integer("height", 0), "viewport height in rows (0 follows the terminal)")
	fs.BoolVar(&cfg.App.ShowFooter, "footer", env.boolean("footer", false), "show the key hint row")
	fs.BoolVar(&cfg.App.Verbose, "verbose", env.boolean("verbose", false), "report successful transfers")
	fs.BoolVar(&cfg.Logging.Trace, "trace", env.boolean("trace", false), "write JSON trace events to the log")
	fs.StringVar(&cfg.Logging.FilePath, "log-file", env.str("log_file", ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	for name, n := range map[string]int{"width": cfg.App.Width, "height": cfg.App.Height} {
		if n < 0 {
			return Config{}, fmt.Errorf("%s must be >= 0 (got %d)", name, n)
		}
	}

	var err error
	if cfg.App.InitialOrdering, err = catalog.ParseOrdering(ordering); err != nil {
		return Config{}, err
	}
	cfg.App.CatalogURL = strings.TrimSpace(cfg.App.CatalogURL)
	if cfg.App.CatalogURL == "" {
		if cfg.App.CatalogURL, err = readURL(cfg.File); err != nil {
			return Config{}, err
		}
	}

	cfg.Flags = make(map[string]string)
	fs.VisitAll(func(f *flag.Flag) {
		cfg.Flags[f.Name] = f.Value.String()
	})
	cfg.Flags["url"] = cfg.App.CatalogURL
	cfg.Flags["ordering"] = cfg.App.InitialOrdering.Wire()
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// readURL loads the url key from the YAML file at path, creating the file
// with DefaultURL first when it does not exist.
func readURL(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("no catalog url: pass -url or -config")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("create config dir: %w", err)
		}
		v.Set("url", DefaultURL)
		if err := v.WriteConfigAs(path); err != nil {
			return "", fmt.Errorf("write default config %s: %w", path, err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	raw := strings.TrimSpace(v.GetString("url"))
	if raw == "" {
		return "", fmt.Errorf("no url found in %s", path)
	}
	return raw, nil
}

// Validate checks the values LoadArgs cannot reject on its own.
func Validate(cfg Config) error {
	raw := strings.TrimSpace(cfg.App.CatalogURL)
	if raw == "" {
		return errors.New("catalog url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("catalog url: %w", err)
	}
	switch {
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		return fmt.Errorf("catalog url %q must use http or https", raw)
	case parsed.Host == "":
		return fmt.Errorf("catalog url %q has no host", raw)
	case cfg.App.RefreshInterval <= 0:
		return fmt.Errorf("interval must be > 0 (got %s)", cfg.App.RefreshInterval)
	case cfg.App.FetchTimeout <= 0:
		return fmt.Errorf("fetch-timeout must be > 0 (got %s)", cfg.App.FetchTimeout)
	case !cfg.App.InitialOrdering.Valid():
		return errors.New("invalid initial ordering")
	}
	return nil
}

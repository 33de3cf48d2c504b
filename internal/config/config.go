package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Config is the complete application configuration. Every component receives
// the section it needs at construction time.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Frontend FrontendConfig `yaml:"frontend"`
	Window   WindowConfig   `yaml:"window"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"TODO_DB_PATH" env-default:"todo.db"`
}

type APIConfig struct {
	Host            string        `yaml:"host" env:"TODO_API_HOST" env-default:"127.0.0.1"`
	Port            int           `yaml:"port" env:"TODO_API_PORT" env-default:"5000"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"TODO_API_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://127.0.0.1:5173"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TODO_API_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Addr returns the host:port pair the API listens on.
func (c APIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type FrontendConfig struct {
	// URL is where the dev server serves the UI and what the window loads.
	URL string `yaml:"url" env:"TODO_FRONTEND_URL" env-default:"http://localhost:5173"`
	// Command starts the dev server. An empty TODO_FRONTEND_COMMAND disables
	// supervision; a YAML file cannot, since cleanenv treats "" as unset.
	Command      string        `yaml:"command" env:"TODO_FRONTEND_COMMAND" env-default:"npm run dev"`
	Dir          string        `yaml:"dir" env:"TODO_FRONTEND_DIR" env-default:"frontend"`
	ReadyTimeout time.Duration `yaml:"ready_timeout" env:"TODO_FRONTEND_READY_TIMEOUT" env-default:"30s"`
	StopTimeout  time.Duration `yaml:"stop_timeout" env:"TODO_FRONTEND_STOP_TIMEOUT" env-default:"5s"`
}

// Enabled reports whether a dev server should be supervised.
func (c FrontendConfig) Enabled() bool {
	return strings.TrimSpace(c.Command) != ""
}

// Args splits Command into program and arguments.
func (c FrontendConfig) Args() []string {
	return strings.Fields(c.Command)
}

type WindowConfig struct {
	Title  string `yaml:"title" env:"TODO_WINDOW_TITLE" env-default:"Todoアプリケーション"`
	Width  int    `yaml:"width" env:"TODO_WINDOW_WIDTH" env-default:"800"`
	Height int    `yaml:"height" env:"TODO_WINDOW_HEIGHT" env-default:"600"`
	Debug  bool   `yaml:"debug" env:"TODO_WINDOW_DEBUG" env-default:"false"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"TODO_LOG_LEVEL" env-default:"info"`
	Env   string `yaml:"env" env:"TODO_ENV" env-default:"prod"`
}

// Load reads the configuration from the YAML file at path, if given, and
// then applies TODO_* environment overrides. Fields set by neither take the
// env-default of their tag.
func Load(path string) (*Config, error) {
	cfg := new(Config)

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	if c.API.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("api.shutdown_timeout must be positive"))
	}

	u, err := url.Parse(c.Frontend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("frontend.url %q is not an http(s) URL", c.Frontend.URL))
	}
	if c.Frontend.Enabled() && c.Frontend.ReadyTimeout <= 0 {
		errs = append(errs, errors.New("frontend.ready_timeout must be positive"))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}

	switch c.Log.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown env: %s", c.Log.Env))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

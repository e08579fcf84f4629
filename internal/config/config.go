// Package config holds the runtime configuration of the chat backend.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

const (
	// ModeService runs a standalone HTTP server.
	ModeService = "service"
	// ModeLambda runs as an AWS Lambda function behind API Gateway.
	ModeLambda = "lambda"

	// ResponderKeyword routes messages by keyword and falls back to "You said: ".
	ResponderKeyword = "keyword"
	// ResponderEcho always replies "Echo: <message>".
	ResponderEcho = "echo"

	envPrefix = "CHAT"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

// keys lists every setting that can be overridden from the environment.
var keys = []string{
	"mode",
	"responder",
	"routes_param",
	"service.addr",
	"service.path",
	"service.timeout",
	"service.max_body_bytes",
	"logging.level",
	"logging.add_source",
}

type Config struct {
	// Mode selects the host: service or lambda.
	Mode string `mapstructure:"mode" default:"service"`
	// Responder selects how accepted messages are answered: keyword or echo.
	Responder string `mapstructure:"responder" default:"keyword"`
	// RoutesParam is an SSM parameter holding keyword routes as JSON. Empty
	// means the built-in routes.
	RoutesParam string `mapstructure:"routes_param"`

	Service struct {
		Addr         string        `mapstructure:"addr" default:":5000"`
		Path         string        `mapstructure:"path" default:"/chat"`
		Timeout      time.Duration `mapstructure:"timeout" default:"10s"`
		MaxBodyBytes int64         `mapstructure:"max_body_bytes" default:"1048576"`
	} `mapstructure:"service"`

	Logging struct {
		Level     string `mapstructure:"level" default:"info"`
		AddSource bool   `mapstructure:"add_source"`
	} `mapstructure:"logging"`
}

// Load builds a Config from defaults, then the optional file at path, then
// CHAT_* environment variables.
func Load(path string) (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: set defaults: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(replacer)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("config: bind env %q: %w", key, err)
		}
	}

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *Config) normalize() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.Responder = strings.ToLower(strings.TrimSpace(c.Responder))
	c.RoutesParam = strings.TrimSpace(c.RoutesParam)
	c.Service.Path = strings.TrimSpace(c.Service.Path)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeService, ModeLambda:
	default:
		errs = append(errs, fmt.Errorf("config: invalid mode %q", c.Mode))
	}
	switch c.Responder {
	case ResponderKeyword, ResponderEcho:
	default:
		errs = append(errs, fmt.Errorf("config: invalid responder %q", c.Responder))
	}
	if !strings.HasPrefix(c.Service.Path, "/") {
		errs = append(errs, fmt.Errorf("config: service path %q must start with /", c.Service.Path))
	}
	if c.Service.Timeout <= 0 {
		errs = append(errs, errors.New("config: service timeout must be positive"))
	}
	if c.Service.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("config: service max body bytes must be positive"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Logging.Level into a slog level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid log level %q", c.Logging.Level)
	}
	return level, nil
}

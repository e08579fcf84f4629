package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ModeService, cfg.Mode)
	require.Equal(t, ResponderKeyword, cfg.Responder)
	require.Empty(t, cfg.RoutesParam)
	require.Equal(t, ":5000", cfg.Service.Addr)
	require.Equal(t, "/chat", cfg.Service.Path)
	require.Equal(t, 10*time.Second, cfg.Service.Timeout)
	require.Equal(t, int64(1<<20), cfg.Service.MaxBodyBytes)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Logging.AddSource)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHAT_MODE", "Lambda")
	t.Setenv("CHAT_RESPONDER", " echo ")
	t.Setenv("CHAT_ROUTES_PARAM", "/chat/routes")
	t.Setenv("CHAT_SERVICE_ADDR", "127.0.0.1:8080")
	t.Setenv("CHAT_SERVICE_TIMEOUT", "3s")
	t.Setenv("CHAT_SERVICE_MAX_BODY_BYTES", "2048")
	t.Setenv("CHAT_LOGGING_LEVEL", "DEBUG")
	t.Setenv("CHAT_LOGGING_ADD_SOURCE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ModeLambda, cfg.Mode)
	require.Equal(t, ResponderEcho, cfg.Responder)
	require.Equal(t, "/chat/routes", cfg.RoutesParam)
	require.Equal(t, "127.0.0.1:8080", cfg.Service.Addr)
	require.Equal(t, 3*time.Second, cfg.Service.Timeout)
	require.Equal(t, int64(2048), cfg.Service.MaxBodyBytes)
	require.True(t, cfg.Logging.AddSource)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
responder: echo
service:
  path: /api/chat
logging:
  level: warn
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ResponderEcho, cfg.Responder)
	require.Equal(t, "/api/chat", cfg.Service.Path)
	require.Equal(t, ":5000", cfg.Service.Addr)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("responder: echo\n"), 0o600))
	t.Setenv("CHAT_RESPONDER", "keyword")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ResponderKeyword, cfg.Responder)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "config: read")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CHAT_RESPONDER", "oracle")
	t.Setenv("CHAT_MODE", "batch")
	t.Setenv("CHAT_LOGGING_LEVEL", "loud")

	_, err := Load("")
	require.Error(t, err)
	require.ErrorContains(t, err, `invalid responder "oracle"`)
	require.ErrorContains(t, err, `invalid mode "batch"`)
	require.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestValidate_ServiceSettings(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Service.Path = "chat"
	cfg.Service.Timeout = 0
	cfg.Service.MaxBodyBytes = -1
	err = cfg.Validate()
	require.ErrorContains(t, err, "must start with /")
	require.ErrorContains(t, err, "timeout must be positive")
	require.ErrorContains(t, err, "max body bytes must be positive")
}
